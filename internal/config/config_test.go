package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.QueueAgingFactor != 2.0 {
		t.Errorf("expected default aging factor 2.0, got %v", cfg.QueueAgingFactor)
	}
	if cfg.QueueMinutesPerPatient != 5 {
		t.Errorf("expected default 5 minutes per patient, got %d", cfg.QueueMinutesPerPatient)
	}
}

func TestResolvedAuthMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit jwt", Config{Env: "development", AuthMode: "jwt"}, "jwt"},
		{"dev implies bypass", Config{Env: "development"}, "development"},
		{"production implies jwt", Config{Env: "production"}, "jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvedAuthMode(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "production", QueueAgingFactor: 2, QueueMinutesPerPatient: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.QueueMinutesPerPatient = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero minutes per patient")
	}
}
