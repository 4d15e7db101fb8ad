package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/port"
)

// Config contains maintenance service configuration
type Config struct {
	// ReconcileInterval is how often to run the orphan reconciliation pass
	ReconcileInterval time.Duration

	// TempFileMaxAge is the maximum age of partial temp files before cleanup
	TempFileMaxAge time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		ReconcileInterval: time.Hour,
		TempFileMaxAge:    24 * time.Hour,
	}
}

// Reconciler runs one orphan reconciliation pass.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// Service runs periodic maintenance: orphan reconciliation and stale temp
// file cleanup.
type Service struct {
	config     *Config
	reconciler Reconciler
	fs         port.FileSystem
	layout     port.StorageLayout
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new maintenance Service
func New(cfg *Config, reconciler Reconciler, fs port.FileSystem, layout port.StorageLayout, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReconcileInterval == 0 {
		cfg.ReconcileInterval = time.Hour
	}
	if cfg.TempFileMaxAge == 0 {
		cfg.TempFileMaxAge = 24 * time.Hour
	}

	return &Service{
		config:     cfg,
		reconciler: reconciler,
		fs:         fs,
		layout:     layout,
		logger:     logger,
	}
}

// Start starts the maintenance service and blocks until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("maintenance service already running")
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Info("maintenance service started",
		zap.Duration("reconcile_interval", s.config.ReconcileInterval),
		zap.Duration("temp_file_max_age", s.config.TempFileMaxAge))

	s.wg.Add(1)
	go s.maintenanceLoop(ctx)

	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("maintenance service stopped")
	return nil
}

// Stop stops the maintenance service
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

// maintenanceLoop handles periodic maintenance tasks
func (s *Service) maintenanceLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runReconcile(ctx)
			s.cleanupTempFiles()
		}
	}
}

// runReconcile runs one orphan reconciliation pass
func (s *Service) runReconcile(ctx context.Context) {
	if err := s.reconciler.Reconcile(ctx); err != nil {
		s.logger.Error("reconciliation failed", zap.Error(err))
	}
}

// cleanupTempFiles removes stale partial files from the cache root
func (s *Service) cleanupTempFiles() {
	fileCount, err := s.fs.CleanOldTempFiles(s.layout.CacheRoot(), s.config.TempFileMaxAge)
	if err != nil {
		s.logger.Error("failed to cleanup stale temp files", zap.Error(err))
	} else if fileCount > 0 {
		s.logger.Info("cleaned up stale temp files", zap.Int("count", fileCount))
	}
}
