package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/maturity/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultSubject   = "default"
	DefaultLockTTL   = 30 * time.Second
	DefaultRedisAddr = "localhost:6379"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	SubjectID string
	Now       time.Time

	RubricPath  string
	AnswersPath string
	BaseScore   float64
	PlanPath    string
	DryRun      bool
	Limit       int // Newest history points to keep (0 = all)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LockBackend   schema.LockBackend
	RedisAddr     string
	RedisPassword string // Please use env var as this is plaintext
	RedisDB       int
	LockTTL       time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Verbose        bool   `mapstructure:"verbose"`
	Subject        string `mapstructure:"subject"`
	Now            string `mapstructure:"now"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	LockBackend    string `mapstructure:"lock-backend"`
	RedisAddr      string `mapstructure:"redis-addr"`
	RedisPassword  string `mapstructure:"redis-password"`
	RedisDB        int    `mapstructure:"redis-db"`
	LockTTL        string `mapstructure:"lock-ttl"`

	// --- Fields from scoreCmd.Flags() ---
	Rubric  string  `mapstructure:"rubric"`
	Answers string  `mapstructure:"answers"`
	Base    float64 `mapstructure:"base"`

	// --- Fields from planImportCmd.Flags() ---
	PlanFile string `mapstructure:"plan-file"`

	// --- Fields from planReplanCmd.Flags() ---
	DryRun bool `mapstructure:"dry-run"`

	// --- Fields from historyCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processNow(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return validateLockConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
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

// validateSimpleInputs processes and validates the presentation and command fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.RubricPath = strings.TrimSpace(input.Rubric)
	cfg.AnswersPath = strings.TrimSpace(input.Answers)
	cfg.PlanPath = strings.TrimSpace(input.PlanFile)
	cfg.DryRun = input.DryRun

	if input.Limit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.Limit)
	}
	cfg.Limit = input.Limit

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	if math.IsNaN(input.Base) || math.IsInf(input.Base, 0) {
		return fmt.Errorf("base score must be a finite number")
	}
	cfg.BaseScore = input.Base

	cfg.SubjectID = strings.TrimSpace(input.Subject)
	if cfg.SubjectID == "" {
		cfg.SubjectID = DefaultSubject
	}
	if strings.ContainsAny(cfg.SubjectID, " \t\n") {
		return fmt.Errorf("subject '%s' cannot contain whitespace", cfg.SubjectID)
	}

	return nil
}

// processNow resolves the reference instant used by the replanner.
func processNow(cfg *Config, input *ConfigRawInput) error {
	now, err := ParseInstant(input.Now, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("invalid --now value: %w", err)
	}
	cfg.Now = now
	return nil
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateLockConfigs validates the lock backend and its Redis settings.
func validateLockConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.LockBackend = schema.LockBackend(strings.ToLower(input.LockBackend))
	if cfg.LockBackend == "" {
		cfg.LockBackend = schema.MemoryLock
	}
	if _, ok := schema.ValidLockBackends[cfg.LockBackend]; !ok {
		return fmt.Errorf("invalid lock backend '%s'. must be memory, redis", input.LockBackend)
	}

	cfg.LockTTL = DefaultLockTTL
	if input.LockTTL != "" {
		ttl, err := time.ParseDuration(input.LockTTL)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("invalid --lock-ttl '%s'. must be a positive duration", input.LockTTL)
		}
		cfg.LockTTL = ttl
	}

	cfg.RedisAddr = input.RedisAddr
	cfg.RedisPassword = input.RedisPassword
	cfg.RedisDB = input.RedisDB
	if cfg.LockBackend == schema.RedisLock {
		if cfg.RedisAddr == "" {
			cfg.RedisAddr = DefaultRedisAddr
		}
		if !strings.Contains(cfg.RedisAddr, ":") {
			return fmt.Errorf("redis address '%s' must be host:port", cfg.RedisAddr)
		}
		if cfg.RedisDB < 0 {
			return fmt.Errorf("redis db cannot be negative (received %d)", cfg.RedisDB)
		}
	}
	return nil
}
