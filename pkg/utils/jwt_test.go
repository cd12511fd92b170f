package utils

import (
	"context"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("user-1", []string{"analyst"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-1" || len(claims.Roles) != 1 {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	SetSecret("test-secret")
	expired, _ := GenerateToken("user-1", nil, -time.Minute)

	SetSecret("other-secret")
	signedElsewhere, _ := GenerateToken("user-1", nil, time.Hour)
	SetSecret("test-secret")

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": signedElsewhere,
		"not a token":  "abc.def",
		"empty":        "",
	} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestClaimsContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("expected no claims on a bare context")
	}
	ctx := WithClaims(context.Background(), &UserClaims{UserID: "u"})
	if claims, ok := ClaimsFromContext(ctx); !ok || claims.UserID != "u" {
		t.Errorf("ClaimsFromContext() = %+v, %v", claims, ok)
	}
}
