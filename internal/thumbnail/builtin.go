package thumbnail

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"scanshelf/internal/fileutil"
	"scanshelf/internal/logging"
	"scanshelf/internal/services"
)

// Builtin renders thumbnails in process.
type Builtin struct {
	size   uint
	logger *slog.Logger
}

// NewBuiltin constructs the in-process thumbnailer.
func NewBuiltin(size int, logger *slog.Logger) *Builtin {
	if size <= 0 {
		size = 100
	}
	return &Builtin{size: uint(size), logger: logging.NewComponentLogger(logger, "thumbnail")}
}

// Generate implements Thumbnailer.
func (b *Builtin) Generate(ctx context.Context, jobs []Job) error {
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.render(job); err != nil {
			return services.Wrap(services.ErrExternalTool, "thumbnail", "builtin",
				fmt.Sprintf("thumbnail of %s", filepath.Base(job.Image)), err)
		}
	}
	b.logger.Info("thumbnails generated", logging.Int("images", len(jobs)))
	return nil
}

func (b *Builtin) render(job Job) error {
	in, err := os.Open(job.Image)
	if err != nil {
		return err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	thumb := resize.Thumbnail(b.size, b.size, img, resize.Lanczos3)

	if err := os.MkdirAll(job.Dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(job.Dir, strings.TrimSuffix(filepath.Base(job.Image), filepath.Ext(job.Image))+".png")
	tmp := fileutil.TempSibling(target, "thumb")
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(out, thumb); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return fileutil.PublishFile(tmp, target)
}
