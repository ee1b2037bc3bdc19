package main

import (
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/energy")
	t.Setenv("ADDR", "")
	t.Setenv("TIME_ZONE", "America/New_York")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != defaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, defaultAddr)
	}
	if cfg.Location.String() != "America/New_York" {
		t.Errorf("Location = %v, want America/New_York", cfg.Location)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := []struct {
		name  string
		dbURL string
		tz    string
	}{
		{"missing DB_URL", "", ""},
		{"unknown time zone", "postgres://localhost/energy", "Mars/Olympus_Mons"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_URL", tc.dbURL)
			t.Setenv("TIME_ZONE", tc.tz)
			if _, err := loadConfig(); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestLoadConfig_NoCORSOrigins(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/energy")
	t.Setenv("TIME_ZONE", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("CORSOrigins = %v, want none", cfg.CORSOrigins)
	}
}
