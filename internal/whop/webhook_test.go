package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	body := []byte(`{"type":"payment.succeeded"}`)

	assert.True(t, ValidSignature("topsecret", body, sign("topsecret", body)))
	assert.True(t, ValidSignature("topsecret", body, "sha256="+sign("topsecret", body)),
		"prefixed header form is accepted")

	assert.False(t, ValidSignature("topsecret", body, sign("wrong", body)))
	assert.False(t, ValidSignature("topsecret", []byte(`tampered`), sign("topsecret", body)))
	assert.False(t, ValidSignature("topsecret", body, ""))
	assert.False(t, ValidSignature("topsecret", body, "not-hex"))
}
