// Package whop wraps the platform API the game depends on: payments, push
// notifications, user lookup, checkout sessions, and verification of the
// signed tokens the platform attaches to inbound traffic.
package whop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Whop platform API with the app's API key.
type Client struct {
	baseURL string
	apiKey  string
	appID   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey, appID string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		appID:   appID,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// PayUserRequest is a single ledger-to-user transfer.
type PayUserRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	DestinationID   string  `json:"destination_id"`
	LedgerAccountID string  `json:"ledger_account_id"`
	Notes           string  `json:"notes"`
	Reason          string  `json:"reason"`
	IdempotenceKey  string  `json:"idempotence_key"`
}

// PayUser transfers funds from the app ledger to a user or company. The
// idempotence key makes repeats after partial failure safe.
func (c *Client) PayUser(ctx context.Context, req PayUserRequest) error {
	return c.do(ctx, http.MethodPost, "/v5/payments/pay_user", req, nil)
}

// User is the public profile subset the game needs at checkout time.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profile_pic_url"`
}

// GetUser fetches a user's public profile.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/v5/users/"+userID, nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

type pushRequest struct {
	ExperienceID string `json:"experience_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

// SendPushNotification notifies every member of the given experience.
func (c *Client) SendPushNotification(ctx context.Context, experienceID, title, content string) error {
	return c.do(ctx, http.MethodPost, "/v5/notifications/push", pushRequest{
		ExperienceID: experienceID,
		Title:        title,
		Content:      content,
	}, nil)
}

// CheckoutRequest creates a checkout session for the entry-fee plan. The
// metadata round-trips through the payment webhook, which is how the game
// learns who paid.
type CheckoutRequest struct {
	PlanID      string            `json:"plan_id"`
	Metadata    map[string]string `json:"metadata"`
	RedirectURL string            `json:"redirect_url"`
}

// CheckoutSession is the session handed back to the iframe client.
type CheckoutSession struct {
	ID          string `json:"id"`
	PlanID      string `json:"plan_id"`
	PurchaseURL string `json:"purchase_url"`
}

// CreateCheckoutSession opens a checkout for one entry fee.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var sess CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v5/checkout_sessions", req, &sess); err != nil {
		return CheckoutSession{}, err
	}
	return sess, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling whop api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("whop api %s %s: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
