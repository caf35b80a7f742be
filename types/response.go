package types

// ApiResponse is the envelope every handler returns. Status mirrors the
// HTTP status code so clients reading the body alone see the outcome.
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}
