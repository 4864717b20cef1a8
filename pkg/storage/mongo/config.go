package mongo

import (
	"fmt"
	"net"
	"net/url"
	"os"

	"go.mongodb.org/mongo-driver/mongo/options"

	"redactor/pkg/storage"
)

// Defaults locate a term store on a local mongod.
const (
	DefaultHost   = "localhost"
	DefaultPort   = "27017"
	DefaultDBName = "moderation"
)

const appName = "redactor"

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

// Config locates the term store. URI, when set, is used as is and the
// address fields are ignored.
type Config struct {
	URI    string
	Host   string
	Port   string
	DBName string
	User   string
	Pass   string
}

// NewConfig reads MONGO_URI, MONGO_HOST, MONGO_PORT, MONGO_DB_NAME, MONGO_USER
// and MONGO_PASS. Unset address fields fall back to the defaults above.
// Credentials are optional but must be given together.
func NewConfig() (*Config, error) {
	conf := &Config{
		URI:    os.Getenv("MONGO_URI"),
		Host:   storage.Getenv("MONGO_HOST", DefaultHost),
		Port:   storage.Getenv("MONGO_PORT", DefaultPort),
		DBName: storage.Getenv("MONGO_DB_NAME", DefaultDBName),
		User:   os.Getenv("MONGO_USER"),
		Pass:   os.Getenv("MONGO_PASS"),
	}

	switch {
	case conf.User != "" && conf.Pass == "":
		return nil, fmt.Errorf("%w: MONGO_PASS", ErrConfParamMissing)
	case conf.User == "" && conf.Pass != "":
		return nil, fmt.Errorf("%w: MONGO_USER", ErrConfParamMissing)
	}

	return conf, nil
}

func (c *Config) conString() string {
	if c.URI != "" {
		return c.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/",
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Pass)
	}
	return u.String()
}

func (c *Config) Options() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.conString()).
		SetAppName(appName)
}
