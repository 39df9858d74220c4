package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Display.WeeksToShow != 52 {
		t.Errorf("Display.WeeksToShow = %v, want 52", cfg.Display.WeeksToShow)
	}
	if cfg.Display.WindowDays != 366 {
		t.Errorf("Display.WindowDays = %v, want 366", cfg.Display.WindowDays)
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name: "valid config",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{WeeksToShow: 52, WindowDays: 366},
			},
			expectError: false,
		},
		{
			name: "empty client ID",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "placeholder client ID",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "YOUR_CLIENT_ID",
					ClientSecret: "abc123secret",
				},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "empty client secret",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "",
				},
			},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "placeholder client secret",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "YOUR_CLIENT_SECRET",
				},
			},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "weeks to show too large",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{WeeksToShow: 500, WindowDays: 366},
			},
			expectError: true,
			errContains: "weeks_to_show",
		},
		{
			name: "weeks to show zero",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{WeeksToShow: 0, WindowDays: 366},
			},
			expectError: true,
			errContains: "weeks_to_show",
		},
		{
			name: "window days too large",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{WeeksToShow: 52, WindowDays: 10000},
			},
			expectError: true,
			errContains: "window_days",
		},
		{
			name: "window days zero",
			config: Config{
				Strava: StravaConfig{
					ClientID:     "12345",
					ClientSecret: "abc123secret",
				},
				Display: DisplayConfig{WeeksToShow: 52, WindowDays: 0},
			},
			expectError: true,
			errContains: "window_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
