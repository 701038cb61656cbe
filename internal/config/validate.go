package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpotify(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateSpotify() error {
	// Both credentials or neither: search is optional, but half a credential
	// pair is always a mistake.
	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		return errors.New("spotify.client_id and spotify.client_secret must be set together (or via SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)")
	}
	if c.Spotify.TokenURL == "" {
		return errors.New("spotify.token_url must be set")
	}
	if c.Spotify.APIBaseURL == "" {
		return errors.New("spotify.api_base_url must be set")
	}
	for key, value := range map[string]int{
		"spotify.request_timeout": c.Spotify.RequestTimeout,
		"spotify.artwork_timeout": c.Spotify.ArtworkTimeout,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive (seconds)", key)
		}
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.ResultLimit <= 0 {
		return errors.New("search.result_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
