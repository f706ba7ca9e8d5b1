package db

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Config holds database configuration
type Config struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxConns     int32  `mapstructure:"max_conns"`
	MinConns     int32  `mapstructure:"min_conns"`
	ConnectTries uint64 `mapstructure:"connect_tries"`
}

// URL renders the connection as a URL with the given scheme. Credentials are
// percent-encoded, so pgxpool and the migrate drivers both read it safely.
func (c Config) URL(scheme string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// Connection wraps the database connection pool
type Connection struct {
	Pool *pgxpool.Pool
}

// NewConnection creates a new database connection, retrying the initial ping
// with exponential backoff while the database comes up.
func NewConnection(ctx context.Context, config Config) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(config.URL("postgres"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	if config.MinConns > 0 {
		poolConfig.MinConns = config.MinConns
	}
	poolConfig.MaxConnLifetime = time.Minute * 30
	poolConfig.MaxConnIdleTime = time.Minute * 5
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	tries := config.ConnectTries
	if tries == 0 {
		tries = 5
	}
	backoff := retry.WithMaxRetries(tries, retry.NewExponential(250*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			slog.WarnContext(ctx, "database not ready", "host", config.Host, "error", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

// Close closes the database connection pool
func (c *Connection) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// DefaultConfig returns a default database configuration
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         5432,
		User:         "postgres",
		Password:     "admin",
		DBName:       "bookmarks",
		SSLMode:      "disable",
		MaxConns:     5,
		MinConns:     1,
		ConnectTries: 5,
	}
}
