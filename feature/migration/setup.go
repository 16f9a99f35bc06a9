package migration

import (
	"context"
	"fmt"
	"time"

	"library-manager/core/config"
	"library-manager/core/reconcile"
	"library-manager/core/storage"
	"library-manager/feature/covers"
	"library-manager/feature/library"
	"library-manager/feature/sources"
	"library-manager/feature/tracking"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options holds everything needed to assemble a migration service.
type Options struct {
	DB      *gorm.DB
	Storage storage.Client
	Bucket  string

	// FS backs the local source. Nil uses the OS filesystem.
	FS afero.Fs

	Config config.MigrationConfig
	Logger *zap.Logger
}

// Setup wires the library repository, installed sources, trackers and the
// cover cache into a migration service.
func Setup(ctx context.Context, opts Options) (*Service, *sources.Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	defaults, err := reconcile.ParseFacetSet(opts.Config.DefaultFacets)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid default facets: %w", err)
	}

	repo := library.NewRepository(opts.DB)
	rows, err := repo.Sources(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sources: %w", err)
	}

	manager := sources.NewManager()
	manager.LoadRows(rows, time.Duration(opts.Config.HTTPTimeoutSeconds)*time.Second, logger)
	if opts.Config.LocalSourceRoot != "" {
		fs := opts.FS
		if fs == nil {
			fs = afero.NewOsFs()
		}
		manager.Register(sources.NewLocalSource(opts.Config.LocalSourceID, fs, opts.Config.LocalSourceRoot), true)
	}
	logger.Info("Sources loaded", zap.Int64s("ids", manager.IDs()))

	cache := covers.NewCache(opts.Storage, opts.Bucket)
	reconciler := reconcile.NewReconciler(reconcile.Dependencies{
		Sources:    manager,
		Sync:       sources.NewSync(repo, logger),
		Episodes:   repo,
		Categories: repo,
		Tracks:     repo,
		Entries:    repo,
		Covers:     cache,
		Trackers:   tracking.NewRegistry(rows),
	}, logger)

	return NewService(reconciler, repo, cache, defaults, logger), manager, nil
}
