package contract

import (
	"fmt"
	"strings"

	"github.com/churnlab/churnscope/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultKeep        = 10
	DefaultSampleRows  = 100
	MaxSampleRows      = 100000
)

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile   string
	Thresholds  schema.Thresholds
	Language    schema.Language
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	PrimaryModelPath   string
	SecondaryModelPath string
	BestModelPath      string

	Owner string
	Save  bool
	Keep  int

	SampleRows int
	SampleSeed int64

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	RiskThreshold        float64 `mapstructure:"risk-threshold"`
	InactiveThreshold    float64 `mapstructure:"inactive-threshold"`
	RevenueThreshold     float64 `mapstructure:"revenue-threshold"`
	NewCustomerThreshold float64 `mapstructure:"new-customer-threshold"`
	Language             string  `mapstructure:"lang"`
	Limit                int     `mapstructure:"limit"`
	Precision            int     `mapstructure:"precision"`
	Output               string  `mapstructure:"output"`
	OutputFile           string  `mapstructure:"output-file"`
	Width                int     `mapstructure:"width"`
	SnapshotBackend      string  `mapstructure:"snapshot-backend"`
	SnapshotDBConnect    string  `mapstructure:"snapshot-db-connect"`
	Emoji                string  `mapstructure:"emoji"`
	Color                string  `mapstructure:"color"`

	// --- Fields from analyzeCmd.Flags() ---
	PrimaryModel   string `mapstructure:"primary-model"`
	SecondaryModel string `mapstructure:"secondary-model"`
	BestModel      string `mapstructure:"best-model"`
	Owner          string `mapstructure:"owner"`
	Save           bool   `mapstructure:"save"`
	Keep           int    `mapstructure:"keep"`

	// --- Fields from sampleCmd.Flags() ---
	Rows int   `mapstructure:"rows"`
	Seed int64 `mapstructure:"seed"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processSampleInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-threshold fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.InputFile = input.InputFileStr
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.PrimaryModelPath = input.PrimaryModel
	cfg.SecondaryModelPath = input.SecondaryModel
	cfg.BestModelPath = input.BestModel
	cfg.Owner = strings.TrimSpace(input.Owner)
	cfg.Save = input.Save

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. Language Validation ---
	cfg.Language = schema.Language(strings.ToLower(input.Language))
	if _, ok := schema.ValidLanguages[cfg.Language]; !ok {
		return fmt.Errorf("invalid language '%s'. must be en, ar", input.Language)
	}

	// --- 4. Keep Validation ---
	if input.Keep < 1 {
		return fmt.Errorf("keep must be at least 1 (received %d)", input.Keep)
	}
	cfg.Keep = input.Keep

	return nil
}

// processThresholds validates the four alert thresholds, each a percentage.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := map[string]float64{
		"risk-threshold":         input.RiskThreshold,
		"inactive-threshold":     input.InactiveThreshold,
		"revenue-threshold":      input.RevenueThreshold,
		"new-customer-threshold": input.NewCustomerThreshold,
	}
	for name, v := range thresholds {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100 (received %g)", name, v)
		}
	}

	cfg.Thresholds = schema.Thresholds{
		Risk:        input.RiskThreshold,
		Inactive:    input.InactiveThreshold,
		Revenue:     input.RevenueThreshold,
		NewCustomer: input.NewCustomerThreshold,
	}
	return nil
}

// validateBackendConfig validates the snapshot backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if _, ok := schema.ValidBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return err
	}

	if cfg.Save && cfg.SnapshotBackend == schema.NoneBackend {
		return fmt.Errorf("--save requires a snapshot backend other than none")
	}
	return nil
}

// processSampleInputs validates the sample generator parameters.
func processSampleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Rows < 1 || input.Rows > MaxSampleRows {
		return fmt.Errorf("rows must be between 1 and %d (received %d)", MaxSampleRows, input.Rows)
	}
	cfg.SampleRows = input.Rows
	cfg.SampleSeed = input.Seed
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
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
