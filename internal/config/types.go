package config

// server configuration loaded from the environment
type Config struct {
	Port           string
	Environment    string
	JWTSecret      string
	DatabaseURL    string
	RedisURL       string
	LoginRateLimit string
	CORSOrigins    []string
	TrustedProxies []string // proxies whose X-Forwarded-For is believed; empty trusts none
}

// client configuration parsed from flags
type ClientFlags struct {
	APIEndpoint string
	SessionPath string
	Debug       bool
}
