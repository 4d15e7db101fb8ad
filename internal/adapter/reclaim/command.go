package reclaim

import (
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/port"
)

// CommandReclaimer frees space by running a host-configured helper command,
// for example a script that clears shared application caches. The target
// byte count is appended as the final argument.
type CommandReclaimer struct {
	command []string
	logger  *zap.Logger
}

// Ensure CommandReclaimer implements port.Reclaimer
var _ port.Reclaimer = (*CommandReclaimer)(nil)

// NewCommand creates a CommandReclaimer. command holds the program and any
// fixed arguments.
func NewCommand(command []string, logger *zap.Logger) *CommandReclaimer {
	return &CommandReclaimer{command: command, logger: logger}
}

// Reclaim launches the helper and returns a channel closed when it exits.
// A failing helper still completes the channel; whether enough space was
// actually freed is the caller's re-check to make.
func (r *CommandReclaimer) Reclaim(targetBytes int64) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		args := append(append([]string{}, r.command[1:]...), strconv.FormatInt(targetBytes, 10))
		out, err := exec.Command(r.command[0], args...).CombinedOutput()
		if err != nil {
			r.logger.Warn("reclaim command failed",
				zap.Strings("command", r.command),
				zap.ByteString("output", out),
				zap.Error(err))
		}
	}()

	return done
}

// Nop completes immediately without reclaiming anything. Used when the
// host has no external reclaim mechanism.
type Nop struct{}

// Ensure Nop implements port.Reclaimer
var _ port.Reclaimer = Nop{}

// Reclaim returns an already-completed channel.
func (Nop) Reclaim(targetBytes int64) <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
