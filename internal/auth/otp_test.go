package auth

import (
	"testing"
)

func TestGenerateOTP_LengthAndDigits(t *testing.T) {
	for _, length := range []int{4, 6, 8, 10} {
		code, err := GenerateOTP(length)
		if err != nil {
			t.Fatalf("GenerateOTP(%d) failed: %v", length, err)
		}
		if len(code) != length {
			t.Errorf("GenerateOTP(%d) returned %q with length %d", length, code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("GenerateOTP(%d) returned non-digit %q in %q", length, r, code)
			}
		}
	}
}

func TestGenerateOTP_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP(6)
		if err != nil {
			t.Fatalf("GenerateOTP failed: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful would
	// mean a broken generator.
	if len(seen) < 45 {
		t.Errorf("GenerateOTP produced only %d distinct codes in 50 draws", len(seen))
	}
}

func TestGenerateVerificationToken_Unique(t *testing.T) {
	a := GenerateVerificationToken()
	b := GenerateVerificationToken()
	if a == "" || b == "" {
		t.Fatal("GenerateVerificationToken returned empty token")
	}
	if a == b {
		t.Errorf("consecutive tokens collided: %q", a)
	}
}

func TestOTPEqual(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		input  string
		want   bool
	}{
		{"exact match", "042137", "042137", true},
		{"mismatch", "042137", "042138", false},
		{"length mismatch", "042137", "42137", false},
		{"leading zeros significant", "001234", "1234", false},
		{"empty input", "042137", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := otpEqual(tt.stored, tt.input); got != tt.want {
				t.Errorf("otpEqual(%q, %q) = %v, want %v", tt.stored, tt.input, got, tt.want)
			}
		})
	}
}
