package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/siga-vet/go-clinic-repository/repository"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

// TextCodeConfig tags configuration errors.
const TextCodeConfig = "ERR-CFG"

// Config describes one database connection.
type Config struct {
	Driver       string
	URL          string
	User         string
	Password     string
	MaxOpenConns int
	MaxIdleConns int
	PingTimeout  time.Duration
}

// DefaultConfig returns pool settings suited to a single clinic instance.
func DefaultConfig() Config {
	return Config{
		Driver:       DriverPostgres,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		PingTimeout:  5 * time.Second,
	}
}

// Validate checks the connection settings.
func (c Config) Validate() error {
	if err := goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&c,
			validation.Field(&c.Driver, validation.Required,
				validation.In(DriverPostgres, DriverPgx, DriverSQLite)),
			validation.Field(&c.URL, validation.Required),
			validation.Field(&c.MaxOpenConns, validation.Min(0)),
			validation.Field(&c.MaxIdleConns, validation.Min(0)),
			validation.Field(&c.PingTimeout, validation.Min(time.Duration(0))),
		)
	}, "invalid database configuration"); err != nil {
		return err.WithTextCode(TextCodeConfig)
	}
	return nil
}

// Provider hands out a live *bun.DB, opening it on first use and reopening
// it when the connection has gone away.
type Provider struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	db     *bun.DB
	closed bool
}

// NewProvider validates cfg and returns a Provider. No connection is made
// until DB is called.
func NewProvider(cfg Config, logger *slog.Logger) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, logger: logger.With("component", "database", "driver", cfg.Driver)}, nil
}

// DB returns the shared handle, reconnecting if the previous one fails a ping.
func (p *Provider) DB(ctx context.Context) (*bun.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, goerrors.New("database provider is closed", goerrors.CategoryOperation).
			WithTextCode(repository.TextCodeStorage)
	}

	if p.db != nil {
		if err := p.ping(ctx, p.db); err == nil {
			return p.db, nil
		}
		p.logger.WarnContext(ctx, "database connection lost, reopening")
		if err := p.db.Close(); err != nil {
			p.logger.WarnContext(ctx, "closing stale connection failed", "error", err)
		}
		p.db = nil
	}

	db, err := Open(p.cfg)
	if err != nil {
		return nil, err
	}
	if err := p.ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, repository.Storage(err, "database", "connect")
	}

	p.logger.InfoContext(ctx, "database connection established")
	p.db = db
	return db, nil
}

// Close releases the connection. Calling it more than once is safe.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func (p *Provider) ping(ctx context.Context, db *bun.DB) error {
	if p.cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.PingTimeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// Open builds a *bun.DB for cfg with the dialect matching its driver.
func Open(cfg Config) (*bun.DB, error) {
	dsn, err := DSN(cfg.Driver, cfg.URL, cfg.User, cfg.Password)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, repository.Storage(err, "database", "open")
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	switch cfg.Driver {
	case DriverSQLite:
		// A single connection keeps in-memory databases shared and
		// serializes writers.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}
}

// CreateTables creates the table of every model that does not exist yet.
func CreateTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return repository.Storage(err, fmt.Sprintf("%T", m), "create_table")
		}
	}
	return nil
}

// DropTables drops the table of every model, in reverse order.
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return repository.Storage(err, fmt.Sprintf("%T", models[i]), "drop_table")
		}
	}
	return nil
}

func configError(msg string, source error) error {
	if source != nil {
		return goerrors.Wrap(source, goerrors.CategoryBadInput, msg).WithTextCode(TextCodeConfig)
	}
	return goerrors.New(msg, goerrors.CategoryBadInput).WithTextCode(TextCodeConfig)
}
