package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/adapter/filesystem"
	"github.com/vertextoedge/download-janitor/internal/adapter/layout"
	"github.com/vertextoedge/download-janitor/internal/adapter/reclaim"
	"github.com/vertextoedge/download-janitor/internal/adapter/sqlite"
	"github.com/vertextoedge/download-janitor/internal/config"
	"github.com/vertextoedge/download-janitor/internal/logger"
	"github.com/vertextoedge/download-janitor/internal/port"
	"github.com/vertextoedge/download-janitor/internal/service/reconcile"
	"github.com/vertextoedge/download-janitor/internal/service/space"
	"github.com/vertextoedge/download-janitor/internal/service/store"
)

// app holds the wired services a command needs.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	store      *sqlite.Store
	fs         *filesystem.Manager
	layout     *layout.Layout
	guard      *space.Guard
	evictor    *space.Evictor
	reconciler *reconcile.Reconciler
	files      *store.Store
}

// newApp loads configuration and wires every service, in the same order
// the pieces depend on each other: config, logger, filesystem, layout,
// database, reclaimer, then the policy services.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetZapLogger()

	fsm := filesystem.NewManager(cfg.Storage.ActiveDirName, log)

	lay := layout.New(layout.Config{
		DataRoot:         cfg.Storage.DataRoot,
		CacheRoot:        cfg.Storage.CacheRoot,
		ExternalRoot:     cfg.Storage.ExternalRoot,
		PrivateCacheDir:  cfg.Storage.PrivateCacheDir,
		PrivateFilesDir:  cfg.Storage.PrivateFilesDir,
		ActiveDirName:    cfg.Storage.ActiveDirName,
		ExternalEmulated: cfg.Storage.ExternalEmulated,
		RemovableMounts:  cfg.Storage.RemovableMounts,
	}, fsm)

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Storage.DataRoot, "janitor.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}
	st, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var reclaimer port.Reclaimer = reclaim.Nop{}
	if len(cfg.Space.ReclaimCommand) > 0 {
		reclaimer = reclaim.NewCommand(cfg.Space.ReclaimCommand, log)
	}

	uid := os.Getuid()
	evictor := space.NewEvictor(fsm, lay, cfg.Space.GetMinDeleteAge(), uid, log)
	guard := space.NewGuard(space.GuardConfig{
		ReservedMarginBytes: cfg.Space.GetReservedMarginBytes(),
		ReclaimTimeout:      cfg.Space.GetReclaimTimeout(),
		ForceFullEviction:   cfg.Space.ForceFullEviction,
	}, fsm, lay, reclaimer, evictor, log)
	reconciler := reconcile.New(st, fsm, lay, uid, log)
	files := store.New(guard, fsm, st, log)

	return &app{
		cfg:        cfg,
		log:        log,
		store:      st,
		fs:         fsm,
		layout:     lay,
		guard:      guard,
		evictor:    evictor,
		reconciler: reconciler,
		files:      files,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.store.Close()
	logger.Sync()
}
