package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel  string
	LogFormat string // json or console
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080

	// Providers in declaration order: adzuna, jsearch, reed
	Providers []domain.ProviderConfig

	Search struct {
		Timeout        time.Duration
		CircuitBreaker bool
	}
	HTTP struct {
		Timeout time.Duration
		Proxies []string // tried in order when a direct request fails
	}
	Storage struct {
		Driver      string // memory, sqlite, redis
		SQLitePath  string
		RedisURL    string
		RedisPrefix string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	} // archive is disabled when URI is empty
	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
		Tab             string
	}

	// Warnings collects problems that were recovered from during Load
	Warnings []string
}

type providerFile struct {
	Providers []domain.ProviderConfig `yaml:"providers"`
}

// Load populates config from an optional .env file, environment variables
// and the optional PROVIDERS_FILE
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:  "info",
		LogFormat: "json",
		Host:      "0.0.0.0",
		Port:      "8080",
	}
	cfg.Search.Timeout = 15 * time.Second
	cfg.HTTP.Timeout = 20 * time.Second
	cfg.Storage.Driver = "memory"
	cfg.Storage.SQLitePath = "data/jobscout.db"
	cfg.Storage.RedisPrefix = "jobscout:"
	cfg.Sheets.Tab = "Applications"

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.Host, "MCP_HOST")
	setString(&cfg.Port, "PORT")

	var err error
	if cfg.Search.Timeout, err = durationEnv("SEARCH_TIMEOUT", cfg.Search.Timeout); err != nil {
		return cfg, err
	}
	if cfg.Search.CircuitBreaker, err = boolEnv("SEARCH_CIRCUIT_BREAKER", false); err != nil {
		return cfg, err
	}
	if cfg.HTTP.Timeout, err = durationEnv("HTTP_TIMEOUT", cfg.HTTP.Timeout); err != nil {
		return cfg, err
	}
	cfg.HTTP.Proxies = splitList(os.Getenv("HTTP_PROXIES"))

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Storage.RedisURL, "REDIS_URL")
	setString(&cfg.Storage.RedisPrefix, "REDIS_PREFIX")
	switch cfg.Storage.Driver {
	case "memory", "sqlite":
	case "redis":
		if cfg.Storage.RedisURL == "" {
			return cfg, fmt.Errorf("missing required environment variables: REDIS_URL")
		}
	default:
		return cfg, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")
	if cfg.Neo4j.URI != "" {
		var missingVars []string
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
		if len(missingVars) > 0 {
			return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
		}
	}

	cfg.Sheets.CredentialsPath = os.Getenv("SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("SHEETS_SPREADSHEET_ID")
	setString(&cfg.Sheets.Tab, "SHEETS_TAB")

	providers, err := providersFromEnv()
	if err != nil {
		return cfg, err
	}
	if path := os.Getenv("PROVIDERS_FILE"); path != "" {
		providers, err = mergeProviderFile(providers, path)
		if err != nil {
			return cfg, err
		}
	}
	cfg.Providers, cfg.Warnings = checkProviders(providers)

	return cfg, nil
}

// Addr is the listen address
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func providersFromEnv() ([]domain.ProviderConfig, error) {
	adzuna := domain.ProviderConfig{
		Name:    domain.ProviderAdzuna,
		BaseURL: os.Getenv("ADZUNA_BASE_URL"),
		AppID:   os.Getenv("ADZUNA_APP_ID"),
		APIKey:  os.Getenv("ADZUNA_APP_KEY"),
		Country: "us",
	}
	setString(&adzuna.Country, "ADZUNA_COUNTRY")

	jsearch := domain.ProviderConfig{
		Name:    domain.ProviderJSearch,
		BaseURL: os.Getenv("JSEARCH_BASE_URL"),
		APIKey:  os.Getenv("JSEARCH_API_KEY"),
		Host:    os.Getenv("JSEARCH_HOST"),
	}

	reed := domain.ProviderConfig{
		Name:    domain.ProviderReed,
		BaseURL: os.Getenv("REED_BASE_URL"),
		APIKey:  os.Getenv("REED_API_KEY"),
	}

	providers := []domain.ProviderConfig{adzuna, jsearch, reed}
	for i := range providers {
		p := &providers[i]
		// enabled by default once credentials are present
		def := p.APIKey != ""
		enabled, err := boolEnv(strings.ToUpper(p.Name)+"_ENABLED", def)
		if err != nil {
			return nil, err
		}
		p.Enabled = enabled
	}
	return providers, nil
}

// mergeProviderFile overlays entries from a YAML file onto the env derived
// providers by name. ${VAR} references in the file are expanded.
func mergeProviderFile(providers []domain.ProviderConfig, path string) ([]domain.ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	var file providerFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return nil, fmt.Errorf("parse providers file %s: %w", path, err)
	}

	out := make([]domain.ProviderConfig, len(providers))
	copy(out, providers)
	for _, override := range file.Providers {
		found := false
		for i := range out {
			if out[i].Name == override.Name {
				out[i] = override
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("providers file %s: unknown provider %q", path, override.Name)
		}
	}
	return out, nil
}

// checkProviders disables enabled providers whose credentials do not validate
func checkProviders(providers []domain.ProviderConfig) ([]domain.ProviderConfig, []string) {
	var warnings []string
	for i := range providers {
		if !providers[i].Enabled {
			continue
		}
		if err := jobdomain.ValidateProviderConfig(providers[i]); err != nil {
			providers[i].Enabled = false
			warnings = append(warnings, fmt.Sprintf("provider %s disabled: %v", providers[i].Name, err))
		}
	}
	return providers, warnings
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def, fmt.Errorf("invalid %s %q: want a positive duration like 15s", key, v)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
