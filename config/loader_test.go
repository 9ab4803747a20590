package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppConfigFromAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
detection:
  startStop: Pattee TC EB
  endStop: Jordan East Pk
`)
	t.Setenv("STOPREPORTS_API_KEY", "sekrit")

	if err := LoadAppConfigFrom(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if Config.Server.Port != 8162 {
		t.Errorf("default port %d, want 8162", Config.Server.Port)
	}
	if Config.API.ChunkHours != 24 {
		t.Errorf("default chunk hours %d, want 24", Config.API.ChunkHours)
	}
	if Config.Detection.LoopMileage != 4.3 {
		t.Errorf("default mileage %v, want 4.3", Config.Detection.LoopMileage)
	}
	if Config.API.SubscriptionKey != "sekrit" {
		t.Errorf("subscription key not read from environment")
	}
	if got := Config.RouteCode("BL"); got != "55" {
		t.Errorf("RouteCode(BL) = %s, want 55", got)
	}
	if got := Config.RouteCode("55"); got != "55" {
		t.Errorf("raw route codes must pass through, got %s", got)
	}
}

func TestLoadAppConfigFromRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing start stop", `
detection:
  endStop: Jordan East Pk
`},
		{"negative mileage", `
detection:
  startStop: Pattee TC EB
  endStop: Jordan East Pk
  loopMileage: -2
`},
		{"bad base url", `
api:
  baseURL: "not a url"
detection:
  startStop: Pattee TC EB
  endStop: Jordan East Pk
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			if err := LoadAppConfigFrom(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadAppConfigFromMissingFile(t *testing.T) {
	if err := LoadAppConfigFrom(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
