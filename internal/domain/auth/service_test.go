package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bottledays/internal/core/apperror"
)

func testService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	jwtSvc := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		Issuer:         "bottledays",
		AccessTokenTTL: time.Minute,
	})
	return NewService([]Account{
		{Username: "reporter", Name: "Report Operator", PasswordHash: string(hash)},
	}, jwtSvc)
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc := testService(t)

	pair, err := svc.Login(context.Background(), "reporter", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if pair.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if !pair.ExpiresAt.After(time.Now()) {
		t.Errorf("token already expired: %s", pair.ExpiresAt)
	}

	uc, err := svc.ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if uc.UserID != "reporter" || uc.Name != "Report Operator" {
		t.Errorf("claims = %q/%q", uc.UserID, uc.Name)
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := testService(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "reporter", "nope"},
		{"unknown account", "ghost", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeUnauthorized {
				t.Errorf("got %v, want unauthorized", err)
			}
		})
	}
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	svc := testService(t)
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestValidateToken_RejectsForeignSignature(t *testing.T) {
	other := NewJWTService(DefaultJWTConfig("different-secret"))
	token, _, err := other.GenerateAccessToken("reporter", "Report Operator")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := testService(t).ValidateToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}
