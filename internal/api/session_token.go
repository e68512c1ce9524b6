package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
)

// sessionAudience ties a token to this service: a signed token minted for
// anything else fails validation even under a shared secret.
const sessionAudience = "warlock-game"

const sessionTTL = 24 * time.Hour

// sessionClaims is the payload of the w_session cookie. The wire names
// follow the registered JWT claim set so standard tooling can decode it.
type sessionClaims struct {
	Email       string `json:"sub"`
	DisplayName string `json:"name"`
	Audience    string `json:"aud"`
	IssuedAt    int64  `json:"iat"`
	Expiry      int64  `json:"exp"`
}

var fallbackSecret []byte

// sessionSecret returns the HMAC key. Without SESSION_SECRET a process-local
// random key is used, so dev sessions die with the process.
func sessionSecret() ([]byte, error) {
	if secret := os.Getenv(constants.EnvSessionSecret); secret != "" {
		return []byte(secret), nil
	}
	if len(fallbackSecret) == 0 {
		fallbackSecret = make([]byte, 32)
		if _, err := crand.Read(fallbackSecret); err != nil {
			return nil, errors.New("failed to generate fallback session secret")
		}
	}
	return fallbackSecret, nil
}

func encodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

func hmacSign(unsigned string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	return encodeSegment(mac.Sum(nil))
}

// mintSessionToken builds a compact HS256 token for the given identity.
func mintSessionToken(email, displayName string, ttl time.Duration) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	now := time.Now().Unix()
	payload, _ := json.Marshal(sessionClaims{
		Email:       email,
		DisplayName: displayName,
		Audience:    sessionAudience,
		IssuedAt:    now,
		Expiry:      now + int64(ttl.Seconds()),
	})
	unsigned := encodeSegment(header) + "." + encodeSegment(payload)
	return unsigned + "." + hmacSign(unsigned, secret), nil
}

// parseSessionToken validates signature, audience and expiry, returning the
// embedded identity.
func parseSessionToken(token string) (*sessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed session token")
	}
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	unsigned := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(hmacSign(unsigned, secret)), []byte(parts[2])) {
		return nil, errors.New("session signature mismatch")
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, err
	}
	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims.Audience != sessionAudience {
		return nil, errors.New("session token for another audience")
	}
	if time.Now().Unix() > claims.Expiry {
		return nil, errors.New("session expired")
	}
	return &claims, nil
}
