package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Environment:     "production",
		WalletAppID:     "app-id",
		WalletAppSecret: "app-secret",
		AdminHandle:     "alice",
	}
}

func TestValidateRuntimeOK(t *testing.T) {
	res := baseConfig().ValidateRuntime()
	if !res.Valid {
		t.Fatalf("expected valid config, got errors: %v", res.Errors)
	}
}

func TestValidateRuntimeMissingRequired(t *testing.T) {
	cfg := baseConfig()
	cfg.WalletAppSecret = ""
	cfg.AdminHandle = "   "

	res := cfg.ValidateRuntime()
	if res.Valid {
		t.Fatal("expected invalid config")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", res.Errors)
	}
	for _, want := range []string{"WALLET_APP_SECRET", "ADMIN_HANDLE"} {
		found := false
		for _, e := range res.Errors {
			if strings.Contains(e, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("no error names %s: %v", want, res.Errors)
		}
	}
}

func TestValidateRuntimeAdminHandlePrefix(t *testing.T) {
	cfg := baseConfig()
	cfg.AdminHandle = "@alice"

	res := cfg.ValidateRuntime()
	if res.Valid {
		t.Fatal("expected invalid config for @-prefixed admin handle")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "@alice") || !strings.Contains(res.Errors[0], "expected: alice") {
		t.Fatalf("error should name the offending value and its expected form: %q", res.Errors[0])
	}
}

func TestValidateRuntimeIdempotent(t *testing.T) {
	cfg := baseConfig()
	cfg.WalletAppID = ""

	first := cfg.ValidateRuntime()
	second := cfg.ValidateRuntime()
	if first.Valid != second.Valid || len(first.Errors) != len(second.Errors) {
		t.Fatalf("results differ across calls: %+v vs %+v", first, second)
	}
}

func TestValidateEnvironment(t *testing.T) {
	cfg := &Config{Environment: "prod", Port: 8080}
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for unknown environment")
	}

	cfg = &Config{Environment: "production", Port: 0}
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}
