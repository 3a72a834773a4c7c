// Package archive packages a rendered site directory into one zip file.
//
// Archives are written next to the destination under a temporary name and
// renamed into place only after the archiver succeeded, so a failed run never
// leaves a truncated archive at the output path.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"scanshelf/internal/config"
	"scanshelf/internal/fileutil"
)

// Archiver packs dir (including the directory itself as the top-level entry)
// into the file at dest.
type Archiver interface {
	Archive(ctx context.Context, dir, dest string) error
}

// New returns the archiver selected by the tools configuration.
func New(cfg *config.Config, logger *slog.Logger) (Archiver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("archive: config is nil")
	}
	if cfg.UsesExternalArchiver() {
		return NewZip(cfg.ZipBinary(), logger), nil
	}
	return NewBuiltin(logger), nil
}

// publish runs write against a temporary sibling of dest and renames it into
// place on success.
func publish(dest string, write func(tmp string) error) error {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve archive path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	tmp := fileutil.TempSibling(abs, uuid.NewString()[:8]) + ".zip"
	if err := write(tmp); err != nil {
		return err
	}
	return fileutil.PublishFile(tmp, abs)
}
