package v1

import (
	"testing"

	"forumhub/config"
	"forumhub/internal/auth"
)

func setTokenConfig(accessExpire, refreshExpire int64) {
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:        "handler-test-secret",
			AccessExpire:  accessExpire,
			RefreshExpire: refreshExpire,
		},
	}
}

func TestRevocableRefreshToken(t *testing.T) {
	setTokenConfig(3600, 7200)

	_, refresh, err := auth.GenerateTokens(42, "web")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	if !revocableRefreshToken(42, refresh) {
		t.Fatal("owner must be able to revoke their refresh token")
	}
	if revocableRefreshToken(7, refresh) {
		t.Fatal("another user must not revoke someone else's token")
	}
	if revocableRefreshToken(42, "not-a-jwt") {
		t.Fatal("garbage token accepted")
	}
}

func TestRevocableRefreshTokenIgnoresExpiry(t *testing.T) {
	// Expired pairs still get blacklisted on logout.
	setTokenConfig(-10, -10)

	_, refresh, err := auth.GenerateTokens(42, "web")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if !revocableRefreshToken(42, refresh) {
		t.Fatal("expired refresh token must remain revocable by its owner")
	}
}

func TestRevocableRefreshTokenRejectsForeignSignature(t *testing.T) {
	setTokenConfig(3600, 7200)
	_, refresh, err := auth.GenerateTokens(42, "web")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	config.GlobalConfig.JWT.Secret = "rotated-secret"
	if revocableRefreshToken(42, refresh) {
		t.Fatal("token signed with a different secret accepted")
	}
}
