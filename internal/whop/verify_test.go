package whop

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigningKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemBytes)
}

func signedToken(t *testing.T, key *ecdsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func headerWith(token string) http.Header {
	h := http.Header{}
	h.Set(UserTokenHeader, token)
	return h
}

func TestVerifyUserToken(t *testing.T) {
	key, pub := newSigningKey(t)
	v, err := NewTokenVerifier("app_123", pub)
	require.NoError(t, err)

	token := signedToken(t, key, jwt.RegisteredClaims{
		Subject:   "user_42",
		Audience:  jwt.ClaimStrings{"app_123"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	userID, err := v.VerifyUserToken(headerWith(token))
	require.NoError(t, err)
	assert.Equal(t, "user_42", userID)
}

func TestVerifyUserTokenRejections(t *testing.T) {
	key, pub := newSigningKey(t)
	v, err := NewTokenVerifier("app_123", pub)
	require.NoError(t, err)

	otherKey, _ := newSigningKey(t)

	cases := map[string]string{
		"missing": "",
		"garbage": "not.a.jwt",
		"wrong audience": signedToken(t, key, jwt.RegisteredClaims{
			Subject:   "user_42",
			Audience:  jwt.ClaimStrings{"app_999"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}),
		"expired": signedToken(t, key, jwt.RegisteredClaims{
			Subject:   "user_42",
			Audience:  jwt.ClaimStrings{"app_123"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}),
		"no subject": signedToken(t, key, jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"app_123"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}),
		"foreign key": signedToken(t, otherKey, jwt.RegisteredClaims{
			Subject:   "user_42",
			Audience:  jwt.ClaimStrings{"app_123"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			h := http.Header{}
			if token != "" {
				h.Set(UserTokenHeader, token)
			}
			_, err := v.VerifyUserToken(h)
			assert.Error(t, err)
		})
	}
}

func TestVerifyUserTokenRejectsUnsignedAlgorithms(t *testing.T) {
	_, pub := newSigningKey(t)
	v, err := NewTokenVerifier("app_123", pub)
	require.NoError(t, err)

	// HS256 signed with the public key bytes, a classic key-confusion
	// attempt. The verifier pins ES256.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_42",
		Audience:  jwt.ClaimStrings{"app_123"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(pub))
	require.NoError(t, err)

	_, err = v.VerifyUserToken(headerWith(raw))
	assert.Error(t, err)
}

func TestNewTokenVerifierRejectsBadPEM(t *testing.T) {
	_, err := NewTokenVerifier("app_123", "not a pem block")
	assert.Error(t, err)
}
