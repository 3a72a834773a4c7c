package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"scanshelf/internal/logging"
	"scanshelf/internal/services"
)

// Builtin writes the archive with archive/zip.
type Builtin struct {
	logger *slog.Logger
}

// NewBuiltin constructs the in-process archiver.
func NewBuiltin(logger *slog.Logger) *Builtin {
	return &Builtin{logger: logging.NewComponentLogger(logger, "archive")}
}

// Archive implements Archiver.
func (b *Builtin) Archive(ctx context.Context, dir, dest string) error {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	entries := 0
	err := publish(dest, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		zw := zip.NewWriter(f)
		walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(parent, p)
			if err != nil {
				return err
			}
			name := filepath.ToSlash(rel)
			if d.IsDir() {
				_, err := zw.Create(name + "/")
				return err
			}
			entries++
			return addFile(zw, p, name)
		})
		closeErr := zw.Close()
		fileErr := f.Close()
		if walkErr == nil {
			walkErr = closeErr
		}
		if walkErr == nil {
			walkErr = fileErr
		}
		if walkErr != nil {
			_ = os.Remove(tmp)
			return services.Wrap(services.ErrExternalTool, "archive", "builtin", fmt.Sprintf("packing %s", filepath.Base(dir)), walkErr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("archive written", logging.String("dir", filepath.Base(dir)), logging.String("archive", dest), logging.Int("files", entries))
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
