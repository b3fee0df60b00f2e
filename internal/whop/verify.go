package whop

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// UserTokenHeader carries the signed user token the platform attaches to
// every request originating from the embedded iframe.
const UserTokenHeader = "X-Whop-User-Token"

// TokenVerifier validates iframe user tokens: ES256 JWTs issued by the
// platform with the app id as audience and the user id as subject.
type TokenVerifier struct {
	appID string
	key   *ecdsa.PublicKey
}

func NewTokenVerifier(appID, publicKeyPEM string) (*TokenVerifier, error) {
	key, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parsing user token public key: %w", err)
	}
	return &TokenVerifier{appID: appID, key: key}, nil
}

var errNoToken = errors.New("missing user token")

// VerifyUserToken returns the verified user id, or an error when the token
// is absent, malformed, expired, or issued for a different app.
func (v *TokenVerifier) VerifyUserToken(h http.Header) (string, error) {
	raw := h.Get(UserTokenHeader)
	if raw == "" {
		return "", errNoToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithAudience(v.appID),
	)
	if err != nil {
		return "", fmt.Errorf("parsing user token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("user token has no subject")
	}
	return claims.Subject, nil
}
