package auth

import "testing"

func TestGenerateAPIKey(t *testing.T) {
	k1, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if len(k1) != 64 {
		t.Errorf("key length = %d, want 64 hex characters", len(k1))
	}

	k2, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if k1 == k2 {
		t.Error("expected unique keys")
	}
}

func TestKeychainVerify(t *testing.T) {
	hash, err := HashAPIKey("secret-key")
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}

	keys := NewKeychain([]string{hash})
	if !keys.Enabled() {
		t.Error("keychain with a hash should be enabled")
	}
	if !keys.Verify("secret-key") {
		t.Error("expected matching key to verify")
	}
	if keys.Verify("wrong-key") {
		t.Error("expected non-matching key to fail")
	}
}

func TestKeychainMultipleKeys(t *testing.T) {
	h1, _ := HashAPIKey("first")
	h2, _ := HashAPIKey("second")

	keys := NewKeychain([]string{h1, h2})
	if !keys.Verify("second") {
		t.Error("expected any configured key to verify")
	}
}

func TestKeychainEmpty(t *testing.T) {
	keys := NewKeychain(nil)
	if keys.Enabled() {
		t.Error("empty keychain should be disabled")
	}
	if keys.Verify("anything") {
		t.Error("empty keychain should verify nothing")
	}
}
