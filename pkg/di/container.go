// Package di wires a clinic deployment together: configuration, logger,
// database connection, cache infrastructure, metrics and every repository.
package di

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/cache"
	"github.com/siga-vet/go-clinic-repository/clinic"
	"github.com/siga-vet/go-clinic-repository/config"
	"github.com/siga-vet/go-clinic-repository/database"
	"github.com/siga-vet/go-clinic-repository/internal/logging"
	"github.com/siga-vet/go-clinic-repository/repository"
	"github.com/siga-vet/go-clinic-repository/repositorycache"
)

// Repositories groups the repositories built by the container.
type Repositories struct {
	Referrals     *clinic.ReferralRepository
	Returns       *clinic.ReturnRepository
	Hemograms     *clinic.HemogramRepository
	Chemistry     *clinic.ClinicalChemistryRepository
	Urinalyses    *clinic.UrinalysisRepository
	Animals       *clinic.AnimalRepository
	Doctors       *clinic.DoctorRepository
	Owners        *clinic.OwnerRepository
	Students      *clinic.StudentRepository
	Consultations *clinic.ConsultationRepository
	Species       *clinic.SpeciesRepository
	Breeds        *clinic.BreedRepository
}

// Container owns the singletons of one process. Repositories are bound to
// the connection opened by NewContainer.
type Container struct {
	cfg           config.Config
	logger        *slog.Logger
	provider      *database.Provider
	db            *bun.DB
	registry      *prometheus.Registry
	metrics       *repositorycache.Metrics
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	repos         Repositories
}

// Option customises NewContainer.
type Option func(*settings)

type settings struct {
	logger   *slog.Logger
	clock    repository.Clock
	registry *prometheus.Registry
}

// WithLogger replaces the logger built from the log section of the config.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithClock sets the clock used for record timestamps.
func WithClock(clock repository.Clock) Option {
	return func(s *settings) { s.clock = clock }
}

// WithRegistry registers the cache counters on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *settings) { s.registry = registry }
}

// NewContainer validates cfg, connects to the database and builds every
// repository.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logging.New(cfg.Logging())
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	provider, err := database.NewProvider(cfg.DB, s.logger)
	if err != nil {
		return nil, err
	}
	db, err := provider.DB(ctx)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	metrics, err := repositorycache.NewMetrics(s.registry)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	cacheService, err := cache.NewCacheService(cfg.Catalog)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}
	keySerializer := cache.NewDefaultKeySerializer()

	c := &Container{
		cfg:           cfg,
		logger:        s.logger,
		provider:      provider,
		db:            db,
		registry:      s.registry,
		metrics:       metrics,
		cacheService:  cacheService,
		keySerializer: keySerializer,
	}
	c.repos = newRepositories(db, cacheService, keySerializer, clinic.Options{
		Clock:   s.clock,
		Logger:  s.logger,
		Metrics: metrics,
	})

	s.logger.InfoContext(ctx, "container ready", "driver", cfg.DB.Driver)
	return c, nil
}

func newRepositories(db bun.IDB, svc cache.CacheService, keys cache.KeySerializer, opts clinic.Options) Repositories {
	return Repositories{
		Referrals:     clinic.NewReferralRepository(db, opts),
		Returns:       clinic.NewReturnRepository(db, opts),
		Hemograms:     clinic.NewHemogramRepository(db, opts),
		Chemistry:     clinic.NewClinicalChemistryRepository(db, opts),
		Urinalyses:    clinic.NewUrinalysisRepository(db, opts),
		Animals:       clinic.NewAnimalRepository(db, opts),
		Doctors:       clinic.NewDoctorRepository(db, opts),
		Owners:        clinic.NewOwnerRepository(db, opts),
		Students:      clinic.NewStudentRepository(db, opts),
		Consultations: clinic.NewConsultationRepository(db, opts),
		Species:       clinic.NewSpeciesRepository(db, svc, keys, opts),
		Breeds:        clinic.NewBreedRepository(db, svc, keys, opts),
	}
}

// Migrate creates the clinic tables that do not exist yet.
func (c *Container) Migrate(ctx context.Context) error {
	return database.CreateTables(ctx, c.db, clinic.Models()...)
}

// Repositories returns the repositories bound to the container connection.
func (c *Container) Repositories() Repositories {
	return c.repos
}

// DB returns the connection the repositories use.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Config returns the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.cfg
}

// Logger returns the process logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Registry exposes the cache counters for scraping.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Metrics returns the cache counters.
func (c *Container) Metrics() *repositorycache.Metrics {
	return c.metrics
}

// CacheService returns the read-through cache shared by the catalogs.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the key serializer shared by the catalogs.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Close releases the database connection. It is safe to call twice.
func (c *Container) Close() error {
	return c.provider.Close()
}
