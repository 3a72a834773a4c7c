package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	c.normalizeScan()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("SCANSHELF_CATALOG"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Catalog = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("SCANSHELF_TITLE"); ok && strings.TrimSpace(value) != "" {
		c.Site.Title = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("SCANSHELF_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.TrimSpace(value)
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		c.Paths.Catalog = defaultCatalog
	}
	if c.Paths.Catalog, err = expandPath(c.Paths.Catalog); err != nil {
		return fmt.Errorf("paths.catalog: %w", err)
	}
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	// An empty log_dir disables the log file.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.ThumbnailSize == 0 {
		c.Site.ThumbnailSize = defaultThumbnailSize
	}
}

func (c *Config) normalizeScan() {
	ext := strings.ToLower(strings.TrimSpace(c.Scan.Extension))
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Scan.Extension = ext
}

func (c *Config) normalizeTools() {
	c.Tools.Thumbnailer = strings.ToLower(strings.TrimSpace(c.Tools.Thumbnailer))
	if c.Tools.Thumbnailer == "" {
		c.Tools.Thumbnailer = ToolExternal
	}
	c.Tools.Archiver = strings.ToLower(strings.TrimSpace(c.Tools.Archiver))
	if c.Tools.Archiver == "" {
		c.Tools.Archiver = ToolExternal
	}
	c.Tools.MogrifyBinary = strings.TrimSpace(c.Tools.MogrifyBinary)
	c.Tools.ZipBinary = strings.TrimSpace(c.Tools.ZipBinary)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
