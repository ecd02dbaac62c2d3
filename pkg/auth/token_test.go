package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mfarias-dev/puntoventa-backend/pkg/config"
	"github.com/mfarias-dev/puntoventa-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "puntoventa",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID:   userID,
		Username: "caja1",
		Role:     enums.RoleWorker,
		JTI:      "session-1",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "caja1" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.Role != enums.RoleWorker {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti to be preserved, got %q", claims.ID)
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "puntoventa", ExpirationMinutes: 30}

	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.Role("boss"),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid role") {
		t.Fatalf("expected invalid role error, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 30}
	parseCfg := config.JWTConfig{Secret: "secret", Issuer: "puntoventa", ExpirationMinutes: 30}

	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected issuer validation to fail")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "puntoventa", ExpirationMinutes: 30}

	// Minted in the past so regular parsing rejects it.
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleWorker,
		JTI:    "expired-session",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse expired token: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("expected jti from expired token, got %q", claims.ID)
	}
}
