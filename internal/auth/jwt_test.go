package auth

import (
	"testing"
	"time"
)

func TestIssueAndValidateToken(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"))

	token, err := manager.IssueUserToken("user-123", "bruce@example.com")
	if err != nil {
		t.Fatalf("IssueUserToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a non-empty token")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Expected user ID user-123, got %s", claims.UserID)
	}
	if claims.Email != "bruce@example.com" {
		t.Errorf("Expected email bruce@example.com, got %s", claims.Email)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"))
	other := NewTokenManager([]byte("different-secret"))

	token, err := manager.IssueUserToken("user-123", "")
	if err != nil {
		t.Fatalf("IssueUserToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"))
	manager.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := manager.IssueUserToken("user-123", "")
	if err != nil {
		t.Fatalf("IssueUserToken failed: %v", err)
	}

	if _, err := NewTokenManager([]byte("test-secret")).ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestValidateGarbageToken(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"))
	if _, err := manager.ValidateToken("not-a-jwt"); err == nil {
		t.Error("Expected validation to fail for garbage input")
	}
}
