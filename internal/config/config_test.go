package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"short fully masked", "hunter2", maskedValue},
		{"boundary fully masked", "12345678", maskedValue},
		{"long keeps edges", "my_long_secret_key_123", "my<" + maskedValue + ">23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.secret); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestMarshalJSONMasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "supersecretpassword"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	if strings.Contains(string(data), "supersecretpassword") {
		t.Errorf("password leaked in JSON: %s", data)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if decoded["model_name"] != DefaultModelName {
		t.Errorf("model_name = %v", decoded["model_name"])
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "supersecretpassword"

	if s := cfg.String(); strings.Contains(s, "supersecretpassword") {
		t.Errorf("password leaked in String(): %s", s)
	}
}

func TestFullModelName(t *testing.T) {
	cfg := &Config{ModelName: "gemini-2.5-flash"}
	if got := cfg.FullModelName(); got != "googleai/gemini-2.5-flash" {
		t.Errorf("FullModelName() = %q", got)
	}
}
