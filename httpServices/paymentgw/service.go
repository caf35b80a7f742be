package paymentgw

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Gateway is the slice of the payment provider the reconciler needs.
// All calls are fallible and must be treated as non-idempotent.
type Gateway interface {
	RequestRefund(req RefundRequest) (*RefundResponse, error)
	CheckRefundStatus(refundRef string) (int, error)
	CancelRefund(refundRef string) error
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (c *Client) RequestRefund(req RefundRequest) (*RefundResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/refunds/", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("payment gateway returned non-OK status: " + resp.Status)
	}

	var apiResp RefundResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}

// CheckRefundStatus returns the gateway's raw status code for a refund.
// The caller maps it onto a refund status.
func (c *Client) CheckRefundStatus(refundRef string) (int, error) {
	httpReq, err := http.NewRequest("GET", c.baseURL+"/refunds/"+refundRef+"/status/", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.New("payment gateway returned non-OK status: " + resp.Status)
	}

	var apiResp RefundStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, err
	}

	return apiResp.StatusCode, nil
}

func (c *Client) CancelRefund(refundRef string) error {
	httpReq, err := http.NewRequest("POST", c.baseURL+"/refunds/"+refundRef+"/cancel/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New("payment gateway returned non-OK status: " + resp.Status)
	}

	return nil
}
