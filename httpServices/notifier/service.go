package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Channel is the reminder delivery collaborator used by the dispatcher.
type Channel interface {
	SendCheckinReminder(r CheckinReminder) (*SendResponse, error)
	SendBoardingReminder(r BoardingReminder) (*SendResponse, error)
	SendPaymentReminder(r PaymentReminder) (*SendResponse, error)
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

func (c *Client) SendCheckinReminder(r CheckinReminder) (*SendResponse, error) {
	return c.post("/notifications/checkin-reminder/", r)
}

func (c *Client) SendBoardingReminder(r BoardingReminder) (*SendResponse, error) {
	return c.post("/notifications/boarding-reminder/", r)
}

func (c *Client) SendPaymentReminder(r PaymentReminder) (*SendResponse, error) {
	return c.post("/notifications/payment-reminder/", r)
}

func (c *Client) post(path string, payload interface{}) (*SendResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(body))
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
		return nil, errors.New("notification channel returned non-OK status: " + resp.Status)
	}

	var apiResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}
