package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// ErrNoDatabaseConfig is returned when neither discrete connection parameters nor a URL are set.
var ErrNoDatabaseConfig = errors.New("no database configuration found: set DATABASE_URL or DB_HOST")

// Config controls PostgreSQL connectivity and pool sizing.
//
// When Host is set the discrete parameters are used and URL is ignored.
// SSL maps to sslmode=require: the link is encrypted but the server certificate is not verified.
type Config struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSL      bool

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	LogLevel        gormlogger.LogLevel
}

// DSN renders the lib/pq connection string for the configuration.
func (c Config) DSN() (string, error) {
	switch {
	case strings.TrimSpace(c.Host) != "":
		return c.discreteDSN(), nil
	case strings.TrimSpace(c.URL) != "":
		return c.urlDSN()
	default:
		return "", ErrNoDatabaseConfig
	}
}

func (c Config) discreteDSN() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Name,
	}
	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}

	q := url.Values{}
	q.Set("sslmode", c.sslMode())
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) urlDSN() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("parse DATABASE_URL: unsupported scheme %q", u.Scheme)
	}

	q := u.Query()
	// lib/pq defaults to sslmode=require, so an unset mode is pinned explicitly.
	if c.SSL || q.Get("sslmode") == "" {
		q.Set("sslmode", c.sslMode())
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c Config) sslMode() string {
	if c.SSL {
		return "require"
	}
	return "disable"
}

// Redacted returns the DSN with the password masked, for logging.
func (c Config) Redacted() string {
	dsn, err := c.DSN()
	if err != nil {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return u.Redacted()
}
