package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scanshelf/internal/logging"
	"scanshelf/internal/services"
)

// CommandRunner executes name with args inside dir and returns its combined output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Zip shells out to Info-ZIP.
type Zip struct {
	binary string
	run    CommandRunner
	logger *slog.Logger
}

// NewZip constructs the external zip archiver.
func NewZip(binary string, logger *slog.Logger) *Zip {
	return NewZipWithRunner(binary, logger, nil)
}

// NewZipWithRunner allows injecting a custom command runner for testing.
func NewZipWithRunner(binary string, logger *slog.Logger, run CommandRunner) *Zip {
	if run == nil {
		run = defaultCommandRunner
	}
	return &Zip{
		binary: strings.TrimSpace(binary),
		run:    run,
		logger: logging.NewComponentLogger(logger, "archive"),
	}
}

// Archive implements Archiver. zip runs inside the parent of dir so archive
// entries start with the site directory name.
func (z *Zip) Archive(ctx context.Context, dir, dest string) error {
	parent, name := filepath.Split(filepath.Clean(dir))
	return publish(dest, func(tmp string) error {
		// zip appends to an existing archive; start from nothing.
		_ = os.Remove(tmp)
		output, err := z.run(ctx, parent, z.binary, "-q", "-r", tmp, name)
		if err != nil {
			_ = os.Remove(tmp)
			detail := strings.TrimSpace(string(output))
			if detail == "" {
				detail = "no output"
			}
			return services.Wrap(services.ErrExternalTool, "archive", "zip",
				fmt.Sprintf("packing %s failed (%s)", name, detail), err)
		}
		if _, err := os.Stat(tmp); err != nil {
			return services.Wrap(services.ErrExternalTool, "archive", "zip", "zip reported success but wrote no archive", err)
		}
		z.logger.Info("archive written", logging.String("dir", name), logging.String("archive", dest))
		return nil
	})
}
