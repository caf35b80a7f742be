package sso

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ferry-booking/types"
)

// SSOClient talks to the central identity provider. Login, registration
// and cross-service redirects all go through it; the booking service
// never sees a password.
type SSOClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *SSOClient {
	return &SSOClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// postJSON sends payload to path and decodes the answer into out. A
// non-empty bearer token is forwarded as the Authorization header.
func (c *SSOClient) postJSON(path string, payload interface{}, bearer string, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("SSO %s returned non-OK status: %s", path, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// RequestRedirectToken obtains a one-time token that lets another
// first-party service complete a sign-in for this user.
func (c *SSOClient) RequestRedirectToken(req ServiceUserRequest) (string, error) {
	var resp ServiceUserResponse
	if err := c.postJSON("/sso/service-user-request/", req, "", &resp); err != nil {
		return "", err
	}
	return resp.RedirectToken, nil
}

// RequestLoginUser exchanges phone and password for a token pair plus the
// provider's view of the user.
func (c *SSOClient) RequestLoginUser(req types.LoginRequest) (*types.LoginUserResponse, error) {
	var resp types.LoginUserResponse
	if err := c.postJSON("/sso/login-phone/", req, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestRegisterUser registers a user with the provider. The optional
// access token lets staff create accounts on a customer's behalf.
func (c *SSOClient) RequestRegisterUser(req types.RegisterUserRequest) (*types.RegisterUserResponse, error) {
	var resp types.RegisterUserResponse
	if err := c.postJSON("/sso/register-service-user/", req, req.Access, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
