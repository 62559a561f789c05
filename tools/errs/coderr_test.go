package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapMsgKeepsCode(t *testing.T) {
	err := ErrRecordNotFound.WrapMsg("message missing", "id", 42)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("wrapped error lost its code: %v", err)
	}
	coded := CodeOf(err)
	if coded == nil {
		t.Fatal("CodeOf returned nil for a coded error")
	}
	if coded.Code != RecordNotFoundError {
		t.Errorf("code = %d, want %d", coded.Code, RecordNotFoundError)
	}
	if !strings.Contains(coded.Detail, "id=42") {
		t.Errorf("detail %q missing kv pair", coded.Detail)
	}
}

func TestWrapMsgDoesNotMutatePredefined(t *testing.T) {
	_ = ErrDatabase.WrapMsg("insert failed", "coll", "dm_message")
	if ErrDatabase.Detail != "" {
		t.Fatalf("predefined error mutated: detail=%q", ErrDatabase.Detail)
	}
}

func TestCodesAreDistinct(t *testing.T) {
	if errors.Is(ErrNoPermission.Wrap(), ErrTokenInvalid) {
		t.Fatal("distinct codes must not match")
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if CodeOf(New("plain", "k", "v")) != nil {
		t.Fatal("plain error should have no code")
	}
}
