package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/pulse/schema"
)

// Default values for configuration.
const (
	DefaultWeeks       = 26
	MaxWeeks           = 104
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	DefaultPRRangeDays = 90
)

// DateFormat is the date representation for range flags and week keys.
const DateFormat = "2006-01-02"

// DefaultAliasesFile is the alias table location relative to the working
// directory.
const DefaultAliasesFile = "author_aliases.json"

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Owner string
	Repo  string
	User  string // set by commands taking a username argument

	Weeks       int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	ExcludedAuthors []string
	AliasesFile     string
	Token           string

	StartDate time.Time
	EndDate   time.Time

	WithPRs bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// RepoSlug returns the owner/repo form used in queries and cache keys.
func (c *Config) RepoSlug() string {
	return c.Owner + "/" + c.Repo
}

// Clone returns a copy of the config, safe to mutate per request.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ExcludedAuthors = make([]string, len(c.ExcludedAuthors))
	copy(clone.ExcludedAuthors, c.ExcludedAuthors)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoStr string
	UserStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Weeks            int    `mapstructure:"weeks"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Exclude          string `mapstructure:"exclude"`
	AliasesFile      string `mapstructure:"aliases-file"`
	Token            string `mapstructure:"token"`
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from daysCmd.Flags() ---
	PRs bool `mapstructure:"prs"`
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processRepoArg(cfg, input); err != nil {
		return err
	}
	resolveToken(cfg, input)
	return nil
}

// validateSimpleInputs processes and validates all non-repo related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.User = input.UserStr
	cfg.WithPRs = input.PRs

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Weeks Validation ---
	if input.Weeks <= 0 || input.Weeks > MaxWeeks {
		return fmt.Errorf("weeks must be greater than 0 and cannot exceed %d (received %d)", MaxWeeks, input.Weeks)
	}
	cfg.Weeks = input.Weeks

	// --- 2. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, markdown", cfg.Output)
	}

	// --- 4. Excludes Processing ---
	// The default bot list applies unless the flag overrides it. An
	// explicit "none" clears the list entirely.
	switch input.Exclude {
	case "":
		cfg.ExcludedAuthors = schema.DefaultBotAuthors
	case "none":
		cfg.ExcludedAuthors = nil
	default:
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.ExcludedAuthors = append(cfg.ExcludedAuthors, trimmed)
			}
		}
	}

	// --- 5. Aliases File ---
	cfg.AliasesFile = input.AliasesFile
	if cfg.AliasesFile == "" {
		cfg.AliasesFile = DefaultAliasesFile
	}

	return nil
}

// processDateRange parses the PR date range flags. The default range is the
// DefaultPRRangeDays days ending now.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now().UTC()
	cfg.EndDate = now
	cfg.StartDate = now.AddDate(0, 0, -DefaultPRRangeDays)

	if input.End != "" {
		end, err := time.Parse(DateFormat, input.End)
		if err != nil {
			return fmt.Errorf("invalid --end date %q (expected YYYY-MM-DD): %w", input.End, err)
		}
		cfg.EndDate = end
		cfg.StartDate = end.AddDate(0, 0, -DefaultPRRangeDays)
	}
	if input.Start != "" {
		start, err := time.Parse(DateFormat, input.Start)
		if err != nil {
			return fmt.Errorf("invalid --start date %q (expected YYYY-MM-DD): %w", input.Start, err)
		}
		cfg.StartDate = start
	}

	if cfg.StartDate.After(cfg.EndDate) {
		return fmt.Errorf("start date %s is after end date %s",
			cfg.StartDate.Format(DateFormat), cfg.EndDate.Format(DateFormat))
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Cache and history must not share one SQLite database file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// processRepoArg splits the positional owner/repo argument.
func processRepoArg(cfg *Config, input *ConfigRawInput) error {
	if input.RepoStr == "" {
		return nil
	}
	parts := strings.Split(input.RepoStr, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid repository %q (expected owner/repo)", input.RepoStr)
	}
	cfg.Owner = parts[0]
	cfg.Repo = parts[1]
	return nil
}

// resolveToken finds a GitHub token from the flag/env/config chain, then
// GITHUB_TOKEN, then a credentials file in the home directory. Commands
// that hit the API fail later when no token was found; commands that only
// touch local state do not need one.
func resolveToken(cfg *Config, input *ConfigRawInput) {
	if input.Token != "" {
		cfg.Token = input.Token
		return
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Token = token
		return
	}
	cfg.Token = tokenFromCredentialsFile(GetCredentialsFilePath())
}

// tokenFromCredentialsFile reads {"github_token": "..."} from a JSON file.
// Any failure yields an empty token.
func tokenFromCredentialsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var creds struct {
		GitHubToken string `json:"github_token"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.GitHubToken
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulse_cache.db"
	}
	return filepath.Join(homeDir, ".pulse_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulse_history.db"
	}
	return filepath.Join(homeDir, ".pulse_history.db")
}

// GetCredentialsFilePath returns the path to the optional credentials file.
func GetCredentialsFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulse_credentials.json"
	}
	return filepath.Join(homeDir, ".pulse_credentials.json")
}
