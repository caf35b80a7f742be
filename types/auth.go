package types

import "strings"

// ErrorResponse is the error shape the auth endpoints return.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// LoginRequest authenticates a user against the SSO provider by phone.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SSOUser is the user payload inside SSO responses.
type SSOUser struct {
	UUID        string   `json:"uuid"`
	Username    string   `json:"username"`
	LegalName   string   `json:"legal_name"`
	PhoneNumber string   `json:"phone_number"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// LoginUserResponse is the SSO provider's login answer.
type LoginUserResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    SSOUser `json:"user"`
}

// RegisterUserRequest registers a user with the SSO provider.
type RegisterUserRequest struct {
	PhoneNumber string `json:"phone_number"`
	Token       string `json:"token,omitempty"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	Access      string `json:"-"`
}

// Validate returns an error message for a malformed register request,
// empty when valid.
func (r RegisterUserRequest) Validate() string {
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return "phone_number is required"
	}
	if strings.TrimSpace(r.Username) == "" {
		return "username is required"
	}
	if len(r.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}

// GetServiceTokenRequest asks the SSO provider for a redirect token that
// lets a service user continue on another frontend.
type GetServiceTokenRequest struct {
	InternalIdentifier string `json:"internal_identifier"`
	RedirectURL        string `json:"redirect_url"`
	UserType           string `json:"user_type"`
}

// Validate returns an error message for a malformed token request, empty
// when valid.
func (r GetServiceTokenRequest) Validate() string {
	if strings.TrimSpace(r.InternalIdentifier) == "" {
		return "internal_identifier is required"
	}
	if strings.TrimSpace(r.RedirectURL) == "" {
		return "redirect_url is required"
	}
	return ""
}

// RegisterUserResponse is the SSO provider's registration answer.
type RegisterUserResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	User    SSOUser `json:"user"`
}
