package sso

// ServiceUserRequest asks the SSO provider for a one-time redirect token
// so another first-party service can sign the user in.
type ServiceUserRequest struct {
	InternalIdentifier string `json:"internal_identifier"`
	RedirectURL        string `json:"redirect_url"`
	UserType           string `json:"user_type"`
}

type ServiceUserResponse struct {
	RedirectToken string `json:"redirect_token"`
}
