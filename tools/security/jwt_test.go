package security

import (
	"errors"
	"testing"
	"time"

	"DMProject/tools/errs"
)

var testSecret = []byte("unit-test-secret")

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions(testSecret)
	token, exp, err := Generate(opts, "u_1001", "alice", "member")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	claims, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != "u_1001" || claims.Username != "alice" || claims.Role != "member" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyExpired(t *testing.T) {
	opts := DefaultOptions(testSecret)
	opts.TTL = -time.Minute
	token, _, err := Generate(opts, "u_1001", "alice", "member")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	_, err = Verify(DefaultOptions(testSecret), token)
	if !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	_, err := Verify(DefaultOptions(testSecret), "not-a-token")
	if !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions(testSecret), "u_1001", "alice", "member")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	_, err = Verify(DefaultOptions([]byte("other-secret")), token)
	if !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}
