// Package config loads the settings of a clinic deployment from a
// database.properties file, with SIGA_* environment variables taking
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/magiconair/properties"
	"github.com/spf13/viper"

	"github.com/siga-vet/go-clinic-repository/cache"
	"github.com/siga-vet/go-clinic-repository/database"
	"github.com/siga-vet/go-clinic-repository/internal/logging"
)

// EnvPrefix is prepended to every environment override, so db.url is read
// from SIGA_DB_URL.
const EnvPrefix = "SIGA"

// DefaultPath is the file the command line tool looks for when no path is
// given explicitly.
const DefaultPath = "database.properties"

// Keys recognised in the properties file.
const (
	KeyDriver      = "db.driver"
	KeyURL         = "db.url"
	KeyUser        = "db.user"
	KeyPassword    = "db.password"
	KeyMaxOpen     = "db.max_open_conns"
	KeyMaxIdle     = "db.max_idle_conns"
	KeyPingTimeout = "db.ping_timeout"
	KeyCapacity    = "cache.catalog.capacity"
	KeyTTL         = "cache.catalog.ttl"
	KeyShards      = "cache.catalog.shards"
	KeyEvictionPct = "cache.catalog.eviction_percentage"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
)

// Config is the resolved configuration.
type Config struct {
	DB      database.Config
	Catalog cache.Config
	Log     Log
}

// Log selects the slog handler used by the process.
type Log struct {
	Level  string
	Format string
}

// Logging converts the log section into logging.Options.
func (c Config) Logging() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// Load resolves the configuration. An empty path uses defaults and the
// environment only; an explicit path must be readable.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		p, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "cannot read configuration file").
				WithTextCode(database.TextCodeConfig).
				WithMetadata(map[string]any{"path": path})
		}
		if err := v.MergeConfigMap(nest(p.Map())); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "cannot merge configuration file").
				WithTextCode(database.TextCodeConfig).
				WithMetadata(map[string]any{"path": path})
		}
	}

	return FromViper(v), nil
}

// FromViper reads a Config out of v. Callers that already own a viper
// instance, such as the command line tool, use it to share flag bindings.
func FromViper(v *viper.Viper) Config {
	return Config{
		DB: database.Config{
			Driver:       v.GetString(KeyDriver),
			URL:          v.GetString(KeyURL),
			User:         v.GetString(KeyUser),
			Password:     v.GetString(KeyPassword),
			MaxOpenConns: v.GetInt(KeyMaxOpen),
			MaxIdleConns: v.GetInt(KeyMaxIdle),
			PingTimeout:  v.GetDuration(KeyPingTimeout),
		},
		Catalog: cache.Config{
			Capacity:           v.GetInt(KeyCapacity),
			NumShards:          v.GetInt(KeyShards),
			TTL:                v.GetDuration(KeyTTL),
			EvictionPercentage: v.GetInt(KeyEvictionPct),
		},
		Log: Log{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}
}

// Validate checks every section and reports the first failure.
func (c Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}

	if err := c.Catalog.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid catalog cache configuration").
			WithTextCode(database.TextCodeConfig)
	}

	if err := goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "warning", "error")),
			validation.Field(&c.Log.Format, validation.In(string(logging.FormatText), string(logging.FormatJSON))),
		)
	}, "invalid log configuration"); err != nil {
		return err.WithTextCode(database.TextCodeConfig)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()
	v.SetDefault(KeyDriver, db.Driver)
	v.SetDefault(KeyURL, "")
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyMaxOpen, db.MaxOpenConns)
	v.SetDefault(KeyMaxIdle, db.MaxIdleConns)
	v.SetDefault(KeyPingTimeout, db.PingTimeout)

	catalog := cache.DefaultConfig()
	v.SetDefault(KeyCapacity, catalog.Capacity)
	v.SetDefault(KeyShards, catalog.NumShards)
	v.SetDefault(KeyTTL, catalog.TTL)
	v.SetDefault(KeyEvictionPct, catalog.EvictionPercentage)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
}

// nest turns flat dotted keys into the nested map viper merges. A key that
// is both a leaf and a parent keeps the parent.
func nest(flat map[string]string) map[string]any {
	out := map[string]any{}
	for key, value := range flat {
		parts := strings.Split(strings.ToLower(key), ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		leaf := parts[len(parts)-1]
		if _, isParent := node[leaf].(map[string]any); !isParent {
			node[leaf] = value
		}
	}
	return out
}

// String renders c with the password masked.
func (c Config) String() string {
	password := ""
	if c.DB.Password != "" {
		password = "****"
	}
	return fmt.Sprintf("driver=%s url=%s user=%s password=%s pool=%d/%d ping=%s catalog=%d/%s log=%s/%s",
		c.DB.Driver, c.DB.URL, c.DB.User, password, c.DB.MaxOpenConns, c.DB.MaxIdleConns,
		c.DB.PingTimeout, c.Catalog.Capacity, c.Catalog.TTL.Round(time.Second), c.Log.Level, c.Log.Format)
}
