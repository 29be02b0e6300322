package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret-pass" {
		t.Error("Expected hash to differ from the plaintext")
	}

	if !CheckPassword(hash, "secret-pass") {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Error("Expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "secret-pass") {
		t.Error("Expected malformed hash to fail")
	}
}
