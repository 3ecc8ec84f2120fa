package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Fatalf("expected bcrypt cost 12 prefix, got %q", hash[:7])
	}

	if !VerifyPassword("s3cret-password", hash) {
		t.Fatal("expected password to verify against its own hash")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if VerifyPassword("incorrect", hash) {
		t.Fatal("expected mismatch to verify as false")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{"", "not-a-hash", "$2a$12$truncated"}
	for _, malformed := range cases {
		if VerifyPassword("anything", malformed) {
			t.Fatalf("expected false for malformed hash %q", malformed)
		}
	}
}
