package types

import "errors"

// Config holds backend selection and connection parameters for sqldb.Open.
type Config struct {
	Backend      string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DSN          string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns" mapstructure:"max_open_conns"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrDSNEmpty            = errors.New("dsn must not be empty")
	ErrMaxOpenConnsInvalid = errors.New("max open connections must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
	BackendMySQL:    true,
}

// Backends returns the supported backend names in a stable order.
func Backends() []string {
	return []string{BackendSQLite, BackendPostgres, BackendMySQL}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DSN == "" {
		return ErrDSNEmpty
	}
	if c.MaxOpenConns < 0 {
		return ErrMaxOpenConnsInvalid
	}
	return nil
}
