package space

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

const (
	// DefaultReservedMargin is kept free at all times so the partition
	// never wedges completely. Never counted as usable.
	DefaultReservedMargin = 32 * 1024 * 1024

	// DefaultReclaimTimeout bounds the wait for external reclamation.
	DefaultReclaimTimeout = 30 * time.Second
)

// GuardConfig configures a Guard.
type GuardConfig struct {
	ReservedMarginBytes int64
	ReclaimTimeout      time.Duration

	// ForceFullEviction makes external reclamation request everything it
	// can rather than just the shortfall. Test installs only.
	ForceFullEviction bool
}

// Guard ensures that requested free space exists on the partition backing
// a write target before the write proceeds. When space is short it picks a
// reclamation strategy by partition identity: targets on the data
// partition (or emulated external storage) go through the external
// reclaimer, targets on the cache partition go through the evictor, and
// anything else is left to fail the re-check.
type Guard struct {
	cfg       GuardConfig
	fs        port.FileSystem
	layout    port.StorageLayout
	reclaimer port.Reclaimer
	evictor   *Evictor
	logger    *zap.Logger
}

// NewGuard creates a new Guard
func NewGuard(cfg GuardConfig, fs port.FileSystem, layout port.StorageLayout, reclaimer port.Reclaimer, evictor *Evictor, logger *zap.Logger) *Guard {
	if cfg.ReservedMarginBytes <= 0 {
		cfg.ReservedMarginBytes = DefaultReservedMargin
	}
	if cfg.ReclaimTimeout <= 0 {
		cfg.ReclaimTimeout = DefaultReclaimTimeout
	}

	return &Guard{
		cfg:       cfg,
		fs:        fs,
		layout:    layout,
		reclaimer: reclaimer,
		evictor:   evictor,
		logger:    logger,
	}
}

// Ensure checks that requiredBytes fit on the partition backing f, freeing
// space first when a reclamation strategy exists for that partition. It
// returns nil on success, an InsufficientSpaceError when space is still
// short after reclamation, or a wrapped IO error when a space or identity
// query fails.
func (g *Guard) Ensure(ctx context.Context, f *os.File, requiredBytes int64) error {
	avail, err := g.availableBytes(f)
	if err != nil {
		return err
	}
	if avail >= requiredBytes {
		// Underlying partition has enough space; go ahead
		return nil
	}

	dev, err := g.fs.PartitionOf(f)
	if err != nil {
		return err
	}

	dataDev := g.fs.PartitionOfPath(g.layout.DataRoot())
	cacheDev := g.fs.PartitionOfPath(g.layout.CacheRoot())
	externalDev := g.fs.PartitionOfPath(g.layout.ExternalRoot())

	g.logger.Info("partition short on space, attempting reclamation",
		zap.String("required", humanize.IBytes(uint64(requiredBytes))),
		zap.Int64("available", avail),
		zap.Uint64("partition", uint64(dev)))

	switch {
	case dev == dataDev || (dev == externalDev && g.layout.ExternalEmulated()):
		if err := g.awaitReclaim(ctx, requiredBytes); err != nil {
			return err
		}
	case dev == cacheDev:
		g.evictor.FreeBytes(requiredBytes)
	}

	avail, err = g.availableBytes(f)
	if err != nil {
		return err
	}
	if avail < requiredBytes {
		return &domain.InsufficientSpaceError{
			RequiredBytes:  requiredBytes,
			AvailableBytes: avail,
		}
	}
	return nil
}

// availableBytes returns free bytes on the partition backing f, minus the
// reserved margin.
func (g *Guard) availableBytes(f *os.File) (int64, error) {
	space, err := g.fs.SpaceOn(f)
	if err != nil {
		return 0, err
	}
	return int64(space.FreeBytes) - g.cfg.ReservedMarginBytes, nil
}

// awaitReclaim asks the external reclaimer for space and blocks until it
// completes or the deadline passes. Cancellation of ctx is noted but never
// shortens the wait; the deadline is the only way out. The caller re-checks
// free space afterwards, so a failed reclaim surfaces there.
func (g *Guard) awaitReclaim(ctx context.Context, requiredBytes int64) error {
	target := requiredBytes
	if g.cfg.ForceFullEviction {
		target = math.MaxInt64
	}

	done := g.reclaimer.Reclaim(target)

	timer := time.NewTimer(g.cfg.ReclaimTimeout)
	defer timer.Stop()

	cancelled := ctx.Done()
	for {
		select {
		case <-done:
			return nil
		case <-cancelled:
			// Absorbed: cancellation must not abort the reclaim wait.
			// Stop watching the context and keep waiting.
			g.logger.Debug("cancellation during reclaim wait, holding until deadline",
				zap.Error(context.Cause(ctx)))
			cancelled = nil
		case <-timer.C:
			return fmt.Errorf("%w after %s", domain.ErrReclaimTimeout, g.cfg.ReclaimTimeout)
		}
	}
}
