// Package thumbnail renders PNG thumbnails of published scan images.
package thumbnail

import (
	"context"
	"fmt"
	"log/slog"

	"scanshelf/internal/config"
)

// Job asks for a thumbnail of Image inside Dir. The thumbnail keeps the base
// name of Image with a .png extension.
type Job struct {
	Image string
	Dir   string
}

// Thumbnailer renders thumbnails that fit a Size x Size box with the aspect
// ratio preserved.
type Thumbnailer interface {
	Generate(ctx context.Context, jobs []Job) error
}

// New returns the thumbnailer selected by the tools configuration.
func New(cfg *config.Config, logger *slog.Logger) (Thumbnailer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("thumbnail: config is nil")
	}
	if cfg.UsesExternalThumbnailer() {
		return NewMogrify(cfg.MogrifyBinary(), cfg.Site.ThumbnailSize, logger), nil
	}
	return NewBuiltin(cfg.Site.ThumbnailSize, logger), nil
}

// groupByDir batches jobs per target directory, keeping first-seen order.
func groupByDir(jobs []Job) ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)
	for _, job := range jobs {
		if _, ok := groups[job.Dir]; !ok {
			order = append(order, job.Dir)
		}
		groups[job.Dir] = append(groups[job.Dir], job.Image)
	}
	return order, groups
}
