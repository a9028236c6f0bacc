package api

import (
	"context"
	"fmt"
	"net/http"
)

// ZohoStatus is used purely as a feature-flag gate for provider-specific
// commands, so it fails soft to the zero value (not configured).
type ZohoStatus struct {
	Configured     bool     `json:"configured"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Features       []string `json:"features,omitempty"`
}

func (c *Client) FetchZohoStatus(ctx context.Context) ZohoStatus {
	var status ZohoStatus
	if err := c.do(ctx, http.MethodGet, "/api/zoho/status", nil, nil, &status); err != nil {
		c.Logger.Warn("zoho status check failed", "error", err)
		return ZohoStatus{}
	}
	return status
}

type ProvisionRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type ProvisionResult struct {
	MailboxID string `json:"mailboxId"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

// ProvisionMailbox creates a hosted mailbox. This is an admin operation, so
// unlike the polling paths it returns real errors.
func (c *Client) ProvisionMailbox(ctx context.Context, req ProvisionRequest) (ProvisionResult, error) {
	var res ProvisionResult
	if err := c.do(ctx, http.MethodPost, "/api/zoho/provision", nil, req, &res); err != nil {
		return ProvisionResult{}, fmt.Errorf("provision mailbox: %w", err)
	}
	return res, nil
}

type ZohoUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
}

func (c *Client) FetchZohoUsers(ctx context.Context) ([]ZohoUser, error) {
	var users []ZohoUser
	if err := c.do(ctx, http.MethodGet, "/api/zoho/users", nil, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Client) ResetZohoPassword(ctx context.Context, userID, password string) error {
	body := map[string]string{"password": password}
	path := fmt.Sprintf("/api/zoho/users/%s/password", userID)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}
