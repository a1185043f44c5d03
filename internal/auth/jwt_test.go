package auth

import (
	"testing"

	"forumhub/config"
)

func setTestConfig(accessExpire int64) {
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:        "unit-test-secret",
			AccessExpire:  accessExpire,
			RefreshExpire: 7200,
		},
	}
}

func TestGenerateAndParseTokens(t *testing.T) {
	setTestConfig(3600)

	access, refresh, err := GenerateTokens(42, "ios")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	claims, err := ParseToken(access)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Device != "ios" {
		t.Fatalf("claims = %+v", claims)
	}

	// The refresh token carries the longer lifetime.
	refreshClaims, err := ParseToken(refresh)
	if err != nil {
		t.Fatalf("ParseToken(refresh): %v", err)
	}
	if !refreshClaims.ExpiresAt.After(claims.ExpiresAt.Time) {
		t.Fatalf("refresh expiry %v not after access expiry %v",
			refreshClaims.ExpiresAt.Time, claims.ExpiresAt.Time)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	setTestConfig(-10)

	access, _, err := GenerateTokens(7, "web")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, err := ParseToken(access); err == nil {
		t.Fatal("expired token accepted")
	}

	// The lenient parser still extracts claims for logout-by-refresh.
	claims, err := ParseTokenAllowExpired(access)
	if err != nil {
		t.Fatalf("ParseTokenAllowExpired: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsTamperedSignature(t *testing.T) {
	setTestConfig(3600)
	access, _, err := GenerateTokens(1, "web")
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	config.GlobalConfig.JWT.Secret = "different-secret"
	if _, err := ParseToken(access); err == nil {
		t.Fatal("token with wrong signature accepted")
	}
	if _, err := ParseTokenAllowExpired(access); err == nil {
		t.Fatal("lenient parser must still verify the signature")
	}
}
