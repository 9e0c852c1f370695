package internal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planstore"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// stack is the plan service and everything behind it. The HTTP server, the
// MCP server, the terminal editor and the export command all run on one.
type stack struct {
	catalog *catalog.Store
	adapter *persistence.Adapter
	saver   *persistence.Saver
	service *planservice.Service
	closers []func() error
}

func openStack(cfg *Config, logger *slog.Logger, svcOpts ...planservice.Option) (*stack, error) {
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	st := &stack{catalog: catalog.NewStore(cat)}

	backend, err := st.openBackend(cfg.Store)
	if err != nil {
		return nil, err
	}
	st.adapter = persistence.NewAdapter(backend, persistence.WithLogger(logger))
	st.saver = persistence.NewSaver(st.adapter, cfg.Store.SaveTimeout, logger)

	opts := []planservice.Option{
		planservice.WithLogger(logger),
		planservice.WithDefaults(planservice.Defaults{
			Template:     cfg.Editor.Template,
			WallHeight:   cfg.Editor.WallHeight,
			HistoryLimit: cfg.Editor.HistoryLimit,
		}),
	}
	st.service = planservice.NewService(st.catalog, st.adapter, st.saver, append(opts, svcOpts...)...)

	logger.Info("plan store opened",
		slog.String("driver", cfg.Store.Driver),
		slog.Int("catalog_entries", cat.Len()))
	return st, nil
}

func (st *stack) openBackend(cfg StoreConfig) (persistence.Backend, error) {
	switch cfg.Driver {
	case StoreDriverMemory:
		return persistence.NewMemory(), nil
	case StoreDriverSQLite, StoreDriverPostgres:
		dsn := cfg.Path
		if cfg.Driver == StoreDriverPostgres {
			dsn = cfg.DSN
		}
		db, err := planstore.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("init plan store: %w", err)
		}
		st.closers = append(st.closers, db.Close)
		return db, nil
	default:
		fs, err := storage.NewFS(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		return persistence.NewFile(fs), nil
	}
}

// Close drains pending saves, then releases the backend.
func (st *stack) Close() error {
	st.saver.Close()
	var errs []error
	for _, c := range st.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
