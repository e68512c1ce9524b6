package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := mintSessionToken("p1@example.com", "Player One", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := parseSessionToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "p1@example.com" || claims.DisplayName != "Player One" {
		t.Fatalf("identity mangled: %+v", claims)
	}
	if claims.Audience != sessionAudience {
		t.Fatalf("unexpected audience %q", claims.Audience)
	}
}

func TestSessionTokenRejectsTampering(t *testing.T) {
	token, err := mintSessionToken("p1@example.com", "Player One", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	parts := strings.Split(token, ".")
	parts[1] = encodeSegment([]byte(`{"sub":"someone-else@example.com"}`))
	if _, err := parseSessionToken(strings.Join(parts, ".")); err == nil {
		t.Fatal("a reshaped payload must fail the signature check")
	}
}

func TestSessionTokenRejectsForeignAudience(t *testing.T) {
	secret, err := sessionSecret()
	if err != nil {
		t.Fatalf("secret: %v", err)
	}
	now := time.Now().Unix()
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, _ := json.Marshal(sessionClaims{
		Email: "p1@example.com", Audience: "some-other-service",
		IssuedAt: now, Expiry: now + 3600,
	})
	unsigned := encodeSegment(header) + "." + encodeSegment(payload)
	token := unsigned + "." + hmacSign(unsigned, secret)
	if _, err := parseSessionToken(token); err == nil {
		t.Fatal("a token minted for another audience must be rejected")
	}
}

func TestSessionTokenRejectsExpired(t *testing.T) {
	token, err := mintSessionToken("p1@example.com", "Player One", -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := parseSessionToken(token); err == nil {
		t.Fatal("an expired token must be rejected")
	}
}
