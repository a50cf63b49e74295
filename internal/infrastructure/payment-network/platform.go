package paymentnetwork

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alimikegami/pi-callback-service/config"
	"github.com/alimikegami/pi-callback-service/pkg/httpclient"
)

// Client talks to the payment network's platform API. Returns nil when no
// base URL is configured; callers treat a nil client as "feature disabled".
type Client struct {
	baseURL string
	apiKey  string
}

func CreateClient(config *config.Config) *Client {
	if config.PlatformConfig.APIBaseURL == "" {
		return nil
	}

	return &Client{
		baseURL: config.PlatformConfig.APIBaseURL,
		apiKey:  config.PlatformConfig.APIKey,
	}
}

// AcknowledgePayment confirms receipt of an approved payment back to the
// platform. Best-effort: the caller logs failures and moves on.
func (c *Client) AcknowledgePayment(paymentID string) error {
	reqBody, err := json.Marshal(map[string]string{"payment_id": paymentID})
	if err != nil {
		return fmt.Errorf("error marshalling acknowledgement request: %v", err)
	}

	req := httpclient.HttpRequest{
		URL:    fmt.Sprintf("%s/v2/payments/%s/acknowledge", c.baseURL, url.PathEscape(paymentID)),
		Method: http.MethodPost,
		Body:   reqBody,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": fmt.Sprintf("Key %s", c.apiKey),
		},
	}

	statusCode, _, err := httpclient.SendRequest(req)
	if err != nil {
		return fmt.Errorf("error calling platform API: %v", err)
	}

	if statusCode != http.StatusOK {
		return fmt.Errorf("platform API returned non-OK status: %d", statusCode)
	}

	return nil
}
