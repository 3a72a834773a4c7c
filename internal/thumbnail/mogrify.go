package thumbnail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"scanshelf/internal/logging"
	"scanshelf/internal/services"
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Mogrify shells out to ImageMagick, one invocation per thumbnail directory.
type Mogrify struct {
	binary string
	size   int
	run    CommandRunner
	logger *slog.Logger
}

// NewMogrify constructs a Mogrify thumbnailer.
func NewMogrify(binary string, size int, logger *slog.Logger) *Mogrify {
	return NewMogrifyWithRunner(binary, size, logger, nil)
}

// NewMogrifyWithRunner allows injecting a custom command runner for testing.
func NewMogrifyWithRunner(binary string, size int, logger *slog.Logger, run CommandRunner) *Mogrify {
	if run == nil {
		run = defaultCommandRunner
	}
	return &Mogrify{
		binary: strings.TrimSpace(binary),
		size:   size,
		run:    run,
		logger: logging.NewComponentLogger(logger, "thumbnail"),
	}
}

// Generate implements Thumbnailer.
func (m *Mogrify) Generate(ctx context.Context, jobs []Job) error {
	order, groups := groupByDir(jobs)
	geometry := fmt.Sprintf("%dx%d", m.size, m.size)
	for _, dir := range order {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create thumbnail dir: %w", err)
		}
		images := groups[dir]
		args := append([]string{"-format", "png", "-path", dir, "-thumbnail", geometry}, images...)
		m.logger.Debug("running mogrify",
			logging.String("dir", dir),
			logging.Int("images", len(images)),
		)
		output, err := m.run(ctx, m.binary, args...)
		if err != nil {
			detail := strings.TrimSpace(string(output))
			if detail == "" {
				detail = "no output"
			}
			return services.Wrap(services.ErrExternalTool, "thumbnail", "mogrify",
				fmt.Sprintf("thumbnailing %d images into %s failed (%s)", len(images), dir, detail), err)
		}
	}
	m.logger.Info("thumbnails generated",
		logging.Int("images", len(jobs)),
		logging.Int("batches", len(order)),
	)
	return nil
}
