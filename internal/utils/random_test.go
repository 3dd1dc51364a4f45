package utils

import (
	"regexp"
	"testing"
)

func TestGenerateResetToken_Format(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !hexPattern.MatchString(token) {
		t.Errorf("expected 64 hex characters, got %q", token)
	}

	other, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token == other {
		t.Error("expected two generated tokens to differ")
	}
}

func TestGenerateOTP_Format(t *testing.T) {
	otpPattern := regexp.MustCompile(`^\d{6}$`)

	// zero-padding matters: a code like "001234" must stay 6 characters
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !otpPattern.MatchString(otp) {
			t.Errorf("expected 6 digits, got %q", otp)
		}
	}
}
