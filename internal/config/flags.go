package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// parses CLI flags for the terminal client
func ParseClientFlags(args []string) (ClientFlags, error) {
	_ = godotenv.Load() // optional .env for local development

	defaults := DefaultClientFlags()

	fs := flag.NewFlagSet("devconnector", flag.ContinueOnError)
	api := fs.String("api", defaults.APIEndpoint, "base URL of the devconnector API")
	session := fs.String("session", defaults.SessionPath, "path to the local session database")
	debug := fs.Bool("debug", defaults.Debug, "write debug logs to devconnector.log")

	if err := fs.Parse(args); err != nil {
		return ClientFlags{}, err
	}

	return ClientFlags{APIEndpoint: *api, SessionPath: *session, Debug: *debug}, nil
}

// returns client defaults, honoring environment overrides
func DefaultClientFlags() ClientFlags {
	sessionPath := os.Getenv("DEVCONNECTOR_SESSION_PATH")
	if sessionPath == "" {
		sessionPath = defaultSessionPath()
	}

	return ClientFlags{
		APIEndpoint: envOr("DEVCONNECTOR_API_ENDPOINT", "http://localhost:"+defaultPort),
		SessionPath: sessionPath,
		Debug:       os.Getenv("DEBUG") != "",
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "devconnector-session.db"
	}

	return filepath.Join(dir, "devconnector", "session.db")
}
