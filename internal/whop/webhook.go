package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-Whop-Signature"

// EventPaymentSucceeded is the only webhook event the game consumes.
const EventPaymentSucceeded = "payment.succeeded"

// WebhookEvent is the subset of the webhook payload the game reads. The
// metadata was attached at checkout time and identifies who paid.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ValidSignature reports whether header is the hex HMAC-SHA256 of body
// under secret. A "sha256=" prefix on the header value is accepted.
func ValidSignature(secret string, body []byte, header string) bool {
	header = strings.TrimPrefix(header, "sha256=")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(header))
}
