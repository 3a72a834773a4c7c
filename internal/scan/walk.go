package scan

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"

	"scanshelf/internal/logging"
)

// Source is one scan file found below the base directory.
type Source struct {
	// AbsPath is the file location on disk.
	AbsPath string
	// RelPath is slash-separated and relative to the scan base.
	RelPath  string
	Filename string
	Name     Name
	Book     string
	Category string
	Hash     string
	// ScanDate holds the EXIF capture time formatted as RFC 3339, when read.
	ScanDate string
	// Page is filled by AssignPages.
	Page int
}

// Options controls a scan.
type Options struct {
	Extension string
	ReadEXIF  bool
	Logger    *slog.Logger
	// Progress receives a progress bar while hashing. Nil disables it.
	Progress io.Writer
}

// Walk lists every regular file below base whose extension matches ext
// case-insensitively. Paths are returned slash-separated relative to base and
// sorted.
func Walk(base, ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(p), ext) {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}
	sort.Strings(out)
	return out, nil
}

// HashFile returns the hex SHA3-256 digest of the file contents.
func HashFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha3.New256()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", p, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Tree walks base, parses and hashes every scan. Any filename that does not
// follow the naming pattern fails the whole scan.
func Tree(ctx context.Context, base string, opts Options) ([]Source, error) {
	logger := logging.NewComponentLogger(opts.Logger, "scan")
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", base, err)
	}
	rels, err := Walk(abs, opts.Extension)
	if err != nil {
		return nil, err
	}
	logger.Info("enumerated scans", logging.String("base", abs), logging.Int("count", len(rels)))

	baseName := filepath.Base(abs)
	sources := make([]Source, 0, len(rels))
	for _, rel := range rels {
		dir, file := path.Split(rel)
		name, err := ParseName(file, opts.Extension)
		if err != nil {
			return nil, err
		}
		book, category := DeriveLocation(dir, baseName)
		sources = append(sources, Source{
			AbsPath:  filepath.Join(abs, filepath.FromSlash(rel)),
			RelPath:  rel,
			Filename: file,
			Name:     name,
			Book:     book,
			Category: category,
		})
	}

	bar := newProgress(opts.Progress, len(sources), "hashing scans")
	for i := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hash, err := HashFile(sources[i].AbsPath)
		if err != nil {
			return nil, err
		}
		sources[i].Hash = hash
		if opts.ReadEXIF {
			if when, ok := ScanDate(sources[i].AbsPath); ok {
				sources[i].ScanDate = when
			}
		}
		bar.step()
	}
	bar.finish()
	return sources, nil
}
