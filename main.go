package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"stratiles/internal/auth"
	"stratiles/internal/cache"
	"stratiles/internal/config"
	"stratiles/internal/insights"
	"stratiles/internal/service"
	"stratiles/internal/store"
	"stratiles/internal/strava"
	"stratiles/internal/tui"
)

func main() {
	snapshot := flag.Bool("snapshot", false, "print a one-shot heatmap and exit")
	flag.Parse()

	if err := run(*snapshot); err != nil {
		log.Fatal(err)
	}
}

func run(snapshot bool) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	dbPath, err := store.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Create token source for API calls (with auto-refresh)
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Create services
	cachePath, err := cache.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving cache path: %w", err)
	}
	stravaClient := strava.NewClient(tokenSource)
	refreshSvc := service.NewRefreshService(stravaClient, cache.New(cachePath))

	opts := insights.DefaultOptions()
	opts.WeeksToShow = cfg.Display.WeeksToShow
	opts.WindowDays = cfg.Display.WindowDays
	refreshSvc.SetOptions(opts)

	// Load the persisted activity-type selection
	selected, err := loadSelection(db)
	if err != nil {
		return fmt.Errorf("loading activity selection: %w", err)
	}

	if snapshot {
		days := refreshSvc.LoadDaysForWidget(ctx, selected)
		fmt.Print(tui.RenderSnapshot(days, time.Now(), cfg.Display.WeeksToShow))
		return nil
	}

	// Launch TUI
	app := tui.NewApp(db, refreshSvc, selected)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// loadSelection maps the stored raw type keys back to known types,
// dropping anything unrecognized. An empty result falls back to the
// defaults downstream.
func loadSelection(db *store.DB) ([]insights.ActivityType, error) {
	raw, err := db.GetSelectedTypes()
	if err != nil {
		return nil, err
	}

	var selected []insights.ActivityType
	for _, key := range raw {
		if t, ok := insights.ParseType(key); ok {
			selected = append(selected, t)
		}
	}
	return selected, nil
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}
