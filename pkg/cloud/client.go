package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the cloud identity service that issues access tokens for
// this station. Tokens are validated server-side against the device id the
// station registered with.
type Client struct {
	BaseURL    string
	ServiceKey string
	DeviceID   string
	HTTPClient *http.Client
}

type ValidateTokenRequest struct {
	Token      string `json:"token"`
	PiDeviceID string `json:"pi_device_id"`
}

type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
}

func NewClient(baseURL, serviceKey, deviceID string) *Client {
	return &Client{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		DeviceID:   deviceID,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateToken asks the identity service whether the presented token is
// valid for this device.
func (c *Client) ValidateToken(token string) (*ValidateTokenResponse, error) {
	requestData := ValidateTokenRequest{
		Token:      token,
		PiDeviceID: c.DeviceID,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/rpc/validate_access_token", c.BaseURL)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.ServiceKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response ValidateTokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}
