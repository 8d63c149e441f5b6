package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/post-service/internal/config"
)

// UserDetails is the subset of the user service's response the post service
// cares about.
type UserDetails struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Client looks up user attributes from the external user service. Lookups are
// bounded by the configured timeout; callers treat any error, expiry included,
// as a failed lookup.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.UserServiceURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.UserServiceTimeoutSec) * time.Second,
		},
	}
}

func (c *Client) GetUser(ctx context.Context, userID int) (*UserDetails, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d for user %d", res.StatusCode, userID)
	}
	var details UserDetails
	if err := json.NewDecoder(res.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decode user service response: %w", err)
	}
	return &details, nil
}
