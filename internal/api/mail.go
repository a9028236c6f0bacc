package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"iammail/internal/model"
)

// FetchEmails lists messages from the backend. It never returns an error:
// any failure logs a warning and yields an empty slice, so the steady-state
// polling path cannot crash a refresh cycle.
func (c *Client) FetchEmails(ctx context.Context, limit int) []model.Message {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var messages []model.Message
	if err := c.do(ctx, http.MethodGet, "/api/imap/emails", query, nil, &messages); err != nil {
		c.Logger.Warn("fetch emails failed", "error", err)
		return []model.Message{}
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages
}

type SendRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// SendResult is the normalized outcome of a send. Callers must check
// Success; SendEmail never returns a Go error.
type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) SendEmail(ctx context.Context, req SendRequest) SendResult {
	// success is a pointer so a 2xx body that explicitly reports
	// {"success":false} is distinguishable from a body without the field.
	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/smtp/send", nil, req, &body)
	if err == nil {
		res := SendResult{
			Success: body.Success == nil || *body.Success,
			Message: body.Message,
		}
		if res.Success && res.Message == "" {
			res.Message = "Message sent"
		}
		if !res.Success && res.Message == "" {
			res.Message = "Send failed"
		}
		return res
	}

	c.Logger.Warn("send email failed", "error", err)
	if se, ok := err.(*StatusError); ok && se.Message != "" {
		return SendResult{Success: false, Message: se.Message}
	}
	return SendResult{Success: false, Message: "Could not reach the mail server"}
}

// FetchContacts lists contacts; empty slice on any failure.
func (c *Client) FetchContacts(ctx context.Context, userID string) []model.Contact {
	var contacts []model.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", userQuery(userID), nil, &contacts); err != nil {
		c.Logger.Warn("fetch contacts failed", "error", err)
		return []model.Contact{}
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts
}

// FetchCalendarEvents lists calendar events; empty slice on any failure.
func (c *Client) FetchCalendarEvents(ctx context.Context, userID string) []model.CalendarEvent {
	var events []model.CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/api/calendar/events", userQuery(userID), nil, &events); err != nil {
		c.Logger.Warn("fetch calendar events failed", "error", err)
		return []model.CalendarEvent{}
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	return events
}

// FetchAccounts lists the configured mail accounts for a user.
func (c *Client) FetchAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	var accounts []model.Account
	if err := c.do(ctx, http.MethodGet, "/api/accounts", userQuery(userID), nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CheckEmailAccounts probes backend reachability with a layered fallback:
// the authenticated accounts endpoint first, then an unauthenticated
// single-message probe, and finally an optimistic true when the backend is
// local (a dev server that is still starting up).
func (c *Client) CheckEmailAccounts(ctx context.Context) bool {
	accounts, err := c.FetchAccounts(ctx, c.UserID)
	if err == nil && len(accounts) > 0 {
		return true
	}

	query := url.Values{}
	query.Set("limit", "1")
	if err := c.do(ctx, http.MethodGet, "/api/imap/emails", query, nil, nil); err == nil {
		return true
	}

	return c.isLocalhost()
}

func userQuery(userID string) url.Values {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}
	return query
}
