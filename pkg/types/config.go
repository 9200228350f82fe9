package types

import "errors"

// Config holds the backend parameters resolved from config.yaml, flags, and
// environment before the store is opened.
type Config struct {
	// DataDir holds modulo.db, the preferences file, and the recovery
	// directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HTTPAddr is the listen address for the shell-facing API. Loopback
	// unless the operator says otherwise.
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// RecoveryRetentionDays bounds the recovery-file cleanup sweep.
	RecoveryRetentionDays int `json:"recovery_retention_days" yaml:"recovery_retention_days"`
}

// Defaults applied by the CLI when config.yaml omits a key.
const (
	DefaultHTTPAddr              = "127.0.0.1:7173"
	DefaultLogLevel              = "info"
	DefaultRecoveryRetentionDays = 7
)

// Config validation errors.
var (
	ErrDataDirEmpty     = errors.New("data_dir must not be empty")
	ErrHTTPAddrEmpty    = errors.New("http_addr must not be empty")
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrRetentionInvalid = errors.New("recovery retention must not be negative")
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.HTTPAddr == "" {
		return ErrHTTPAddrEmpty
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	if c.RecoveryRetentionDays < 0 {
		return ErrRetentionInvalid
	}
	return nil
}

// WithDefaults returns a copy of the Config with empty fields replaced by
// package defaults. DataDir is left alone; resolution order for it lives in
// internal/paths.
func (c Config) WithDefaults() Config {
	out := c
	if out.HTTPAddr == "" {
		out.HTTPAddr = DefaultHTTPAddr
	}
	if out.LogLevel == "" {
		out.LogLevel = DefaultLogLevel
	}
	if out.RecoveryRetentionDays == 0 {
		out.RecoveryRetentionDays = DefaultRecoveryRetentionDays
	}
	return out
}
