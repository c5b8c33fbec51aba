package config

import (
	"os"
	"time"
)

// API captures configuration for the data API process.
type API struct {
	Addr               string
	Environment        string
	ParentDomain       string
	DatabaseURL        string
	ServiceTokenSecret string
	DocsMirrorRoot     string
	FilesRoot          string
}

// Portal captures configuration for the public renderer process.
type Portal struct {
	Addr               string
	Environment        string
	ParentDomain       string
	APIBaseURL         string
	ServiceTokenSecret string
	RedisURL           string
	SecureCookies      bool
	SessionTTL         time.Duration
	SweepInterval      time.Duration
}

// MCP captures configuration for the companion tool server.
type MCP struct {
	Addr       string
	APIBaseURL string
	APIKey     string
}

// SessionTTL is the validity window for subdomain sessions.
var SessionTTL = 24 * time.Hour

// APIFromEnv builds an API config from environment variables so main stays lean.
func APIFromEnv() API {
	return API{
		Addr:               envOr("DOCPORT_API_ADDR", ":8080"),
		Environment:        envOr("DOCPORT_ENV", "development"),
		ParentDomain:       envOr("DOCPORT_PARENT_DOMAIN", "docport.dev"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ServiceTokenSecret: os.Getenv("DOCPORT_SERVICE_SECRET"),
		DocsMirrorRoot:     envOr("DOCPORT_DOCS_ROOT", "/var/lib/docport/docs"),
		FilesRoot:          envOr("DOCPORT_FILES_ROOT", "/var/lib/docport/files"),
	}
}

// PortalFromEnv builds a Portal config from environment variables.
func PortalFromEnv() Portal {
	cfg := Portal{
		Addr:               envOr("DOCPORT_PORTAL_ADDR", ":8081"),
		Environment:        envOr("DOCPORT_ENV", "development"),
		ParentDomain:       envOr("DOCPORT_PARENT_DOMAIN", "docport.dev"),
		APIBaseURL:         envOr("DOCPORT_API_URL", "http://localhost:8080"),
		ServiceTokenSecret: os.Getenv("DOCPORT_SERVICE_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		SecureCookies:      os.Getenv("DOCPORT_ENV") == "production",
		SessionTTL:         SessionTTL,
		SweepInterval:      time.Hour,
	}
	if ttl := os.Getenv("DOCPORT_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.SessionTTL = d
		}
	}
	return cfg
}

// MCPFromEnv builds an MCP config from environment variables.
func MCPFromEnv() MCP {
	return MCP{
		Addr:       envOr("DOCPORT_MCP_ADDR", ":8090"),
		APIBaseURL: envOr("DOCPORT_API_URL", "http://localhost:8080"),
		APIKey:     os.Getenv("DOCPORT_API_KEY"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
