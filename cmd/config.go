package cmd

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Name     string `mapstructure:"name"`
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Active   bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// ResolveDBConfig picks the connection settings for this run:
// an explicit --dsn flag, then the active profile under databases:,
// then the flat database.* keys (which the env bindings feed).
func ResolveDBConfig(dsnFlagSet bool) (*DBConfig, error) {
	if dsnFlagSet {
		return &DBConfig{Name: "CLI", Driver: viper.GetString("database.driver"), DSN: viper.GetString("database.dsn")}, nil
	}
	if viper.IsSet("databases") {
		return GetActiveDBConfig()
	}

	cfg := &DBConfig{
		Name:     "default",
		Driver:   viper.GetString("database.driver"),
		DSN:      viper.GetString("database.dsn"),
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		Database: viper.GetString("database.name"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		SSLMode:  viper.GetString("database.sslmode"),
	}
	if cfg.DSN == "" && cfg.Host == "" && cfg.Driver != "sqlite" {
		return nil, fmt.Errorf("database is not configured: set database.dsn, SERVER_NAME/DATABASE_NAME or a databases profile")
	}
	return cfg, nil
}

// BuildDSN returns the DSN as given, or assembles one for the driver.
func BuildDSN(c *DBConfig) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	switch strings.ToLower(c.Driver) {
	case "postgres", "pgx":
		return buildPostgresDSN(c), nil
	case "mysql":
		return buildMySQLDSN(c), nil
	case "sqlserver", "mssql":
		return buildSQLServerDSN(c), nil
	case "oracle":
		port := c.Port
		if port == 0 {
			port = 1521
		}
		return go_ora.BuildUrl(c.Host, port, c.Database, c.User, c.Password, nil), nil
	case "sqlite":
		if c.Database == "" {
			return "news-etl.db", nil
		}
		return c.Database, nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

func buildPostgresDSN(c *DBConfig) string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.Database, sslMode,
	)
}

func buildMySQLDSN(c *DBConfig) string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if c.SSLMode == "require" {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}

func buildSQLServerDSN(c *DBConfig) string {
	port := c.Port
	if port == 0 {
		port = 1433
	}
	q := url.Values{}
	q.Set("database", c.Database)
	if c.SSLMode == "disable" {
		q.Set("encrypt", "disable")
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(port)),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// redactDSN hides the password for log output.
func redactDSN(c *DBConfig, dsn string) string {
	if c.Password != "" {
		return strings.ReplaceAll(dsn, c.Password, "****")
	}
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return u.String()
		}
	}
	return dsn
}
