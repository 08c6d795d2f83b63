package config

import (
	"testing"
)

func TestParseOperators(t *testing.T) {
	ops, err := parseOperators("alice:operator:$2a$12$abc, bob:viewer:$2a$12$def")
	if err != nil {
		t.Fatalf("parseOperators() failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operators, want 2", len(ops))
	}
	if ops[0].Username != "alice" || ops[0].Role != "operator" || ops[0].PasswordHash != "$2a$12$abc" {
		t.Errorf("unexpected first operator: %+v", ops[0])
	}
	if ops[1].Username != "bob" || ops[1].Role != "viewer" {
		t.Errorf("unexpected second operator: %+v", ops[1])
	}
}

func TestParseOperators_Empty(t *testing.T) {
	ops, err := parseOperators("   ")
	if err != nil {
		t.Fatalf("parseOperators() failed: %v", err)
	}
	if ops != nil {
		t.Errorf("empty input should yield nil, got %+v", ops)
	}
}

func TestParseOperators_Malformed(t *testing.T) {
	if _, err := parseOperators("alice-no-separator"); err == nil {
		t.Error("malformed entry must fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Snapshot.Backend != "file" {
		t.Errorf("default backend = %q, want file", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.MaxUploadBytes() != 32<<20 {
		t.Errorf("default upload limit = %d, want %d", cfg.Snapshot.MaxUploadBytes(), 32<<20)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("default addr = %q", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout().Seconds() != 30 {
		t.Errorf("default timeout = %v", cfg.App.RequestTimeout())
	}
}
