package config

import "testing"

func TestResolveDefaultsPolicies(t *testing.T) {
	for _, policy := range []string{DeletePolicyAll, DeletePolicyNewOnly} {
		cfg := NewForTesting()
		cfg.DeletePolicy = policy
		if err := cfg.ResolveDefaults(); err != nil {
			t.Fatalf("policy %q rejected: %v", policy, err)
		}
	}
}

func TestResolveDefaultsUnknownPolicy(t *testing.T) {
	cfg := NewForTesting()
	cfg.DeletePolicy = "ask-first"
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown delete policy")
	}
}

func TestResolveDefaultsEmptyPassphrase(t *testing.T) {
	cfg := NewForTesting()
	cfg.AdminPassphrase = ""
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}
