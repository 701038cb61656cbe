package config

const (
	defaultDataDir        = "~/.local/share/cardbox/data"
	defaultPublicDir      = "~/.local/share/cardbox/public"
	defaultLogDir         = "~/.local/share/cardbox/logs"
	defaultAPIBind        = "127.0.0.1:3000"
	defaultTokenURL       = "https://accounts.spotify.com/api/token"
	defaultAPIBaseURL     = "https://api.spotify.com/v1"
	defaultRequestTimeout = 10
	defaultArtworkTimeout = 15
	defaultResultLimit    = 5
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			PublicDir: defaultPublicDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Spotify: Spotify{
			TokenURL:       defaultTokenURL,
			APIBaseURL:     defaultAPIBaseURL,
			RequestTimeout: defaultRequestTimeout,
			ArtworkTimeout: defaultArtworkTimeout,
		},
		Search: Search{
			ResultLimit: defaultResultLimit,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
