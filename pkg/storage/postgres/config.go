package postgres

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"redactor/pkg/storage"
)

// Defaults locate a term store on a local server.
const (
	DefaultUser   = "postgres"
	DefaultHost   = "localhost"
	DefaultPort   = "5432"
	DefaultDBName = "moderation"
)

var ErrInvalidConfig = errors.New("invalid postgres config")

type Config struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
	// SSLMode is passed through as the sslmode parameter when set.
	SSLMode string
}

// NewConfig reads POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_HOST,
// POSTGRES_PORT, POSTGRES_DB and POSTGRES_SSLMODE. Everything but the
// password has a default.
func NewConfig() (Config, error) {
	conf := Config{
		User:     storage.Getenv("POSTGRES_USER", DefaultUser),
		Password: storage.Getenv("POSTGRES_PASSWORD", ""),
		Host:     storage.Getenv("POSTGRES_HOST", DefaultHost),
		Port:     storage.Getenv("POSTGRES_PORT", DefaultPort),
		DBName:   storage.Getenv("POSTGRES_DB", DefaultDBName),
		SSLMode:  storage.Getenv("POSTGRES_SSLMODE", ""),
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c Config) url() *url.URL {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u
}

// ConString returns the connection URL. Credentials are escaped.
func (c Config) ConString() string {
	return c.url().String()
}

// String is ConString with the password redacted, safe for logs.
func (c Config) String() string {
	return c.url().Redacted()
}

// Validate names every missing field.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"user", c.User},
		{"password", c.Password},
		{"host", c.Host},
		{"port", c.Port},
		{"database", c.DBName},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return nil
}
