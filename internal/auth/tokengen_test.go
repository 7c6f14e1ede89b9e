package auth

import (
	"strings"
	"testing"
)

func TestGenerateToken_Live(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(EnvLive)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Check plaintext format
	if !strings.HasPrefix(token.Plaintext, "lb_live_") {
		t.Errorf("Token should start with lb_live_, got: %s", token.Plaintext)
	}

	// Check prefix length
	if len(token.Prefix) != TokenPrefixLen {
		t.Errorf("Prefix should be %d chars, got: %d", TokenPrefixLen, len(token.Prefix))
	}

	// Check hash is not empty and in PHC format
	if token.Hash == "" {
		t.Error("Hash should not be empty")
	}
	if !strings.HasPrefix(token.Hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", token.Hash)
	}

	// Verify plaintext contains prefix
	if !strings.Contains(token.Plaintext, token.Prefix) {
		t.Error("Plaintext should contain prefix")
	}
}

func TestGenerateToken_Test(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(EnvTest)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if !strings.HasPrefix(token.Plaintext, "lb_test_") {
		t.Errorf("Token should start with lb_test_, got: %s", token.Plaintext)
	}
}

func TestGenerateToken_DefaultsToLive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  string
	}{
		{"invalid env", "invalid"},
		{"empty env", ""},
		{"prod env", "prod"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := GenerateToken(tt.env)
			if err != nil {
				t.Fatalf("GenerateToken failed: %v", err)
			}
			if !strings.HasPrefix(token.Plaintext, "lb_live_") {
				t.Errorf("Expected lb_live_ prefix for env %q, got: %s", tt.env, token.Plaintext)
			}
		})
	}
}

func TestParseToken_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(EnvLive)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parsed, err := ParseToken(token.Plaintext)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if parsed.Env != EnvLive {
		t.Errorf("Env = %s, want live", parsed.Env)
	}
	if parsed.Prefix != token.Prefix {
		t.Errorf("Prefix = %s, want %s", parsed.Prefix, token.Prefix)
	}
	if len(parsed.Secret) != TokenSecretLen {
		t.Errorf("Secret length = %d, want %d", len(parsed.Secret), TokenSecretLen)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong product prefix", "pk_live_abc123_" + strings.Repeat("a", 32)},
		{"wrong env", "lb_prod_abc123_" + strings.Repeat("a", 32)},
		{"short prefix", "lb_live_abc_" + strings.Repeat("a", 32)},
		{"short secret", "lb_live_abc123_deadbeef"},
		{"uppercase hex", "lb_live_ABC123_" + strings.Repeat("A", 32)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseToken(tt.token); err == nil {
				t.Errorf("ParseToken(%q) should fail", tt.token)
			}
			if ValidateTokenFormat(tt.token) {
				t.Errorf("ValidateTokenFormat(%q) should be false", tt.token)
			}
		})
	}
}

func TestVerifySecret_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(EnvLive)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	match, err := VerifySecret(token.Plaintext, token.Hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if !match {
		t.Error("Generated token should verify against its own hash")
	}

	match, err = VerifySecret(token.Plaintext+"x", token.Hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if match {
		t.Error("Modified token should not verify")
	}
}

func TestVerifySecret_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainhash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536,t=3,p=4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := VerifySecret("anything", tt.hash); err == nil {
				t.Errorf("VerifySecret with hash %q should fail", tt.hash)
			}
		})
	}
}

func TestQuickHash_Deterministic(t *testing.T) {
	t.Parallel()

	h1 := QuickHash("lb_live_abc123_secret")
	h2 := QuickHash("lb_live_abc123_secret")

	if h1 != h2 {
		t.Error("QuickHash should be deterministic")
	}
	if len(h1) != 32 {
		t.Errorf("QuickHash length = %d, want 32", len(h1))
	}
	if h1 == QuickHash("lb_live_abc123_other") {
		t.Error("Different inputs should produce different hashes")
	}
}
