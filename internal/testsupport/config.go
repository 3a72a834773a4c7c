package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scanshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Catalog = filepath.Join(base, "catalog.sqlite3")
	cfgVal.Paths.SourceDir = filepath.Join(base, "scans")
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = ""
	cfgVal.Tools.Thumbnailer = config.ToolBuiltin
	cfgVal.Tools.Archiver = config.ToolBuiltin

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithExternalTools switches both thumbnailer and archiver to subprocess mode.
func WithExternalTools() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.Thumbnailer = config.ToolExternal
		b.cfg.Tools.Archiver = config.ToolExternal
	}
}

// WithTitle overrides the site title.
func WithTitle(title string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.Title = title
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, mogrify and zip are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"mogrify", "zip"}
		}
		scripts := make(map[string]string, len(names))
		for _, name := range names {
			scripts[name] = "#!/bin/sh\nexit 0\n"
		}
		StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), scripts)
	}
}

// StubBinaries writes each script as an executable under binDir and prepends
// binDir to PATH for the rest of the test.
func StubBinaries(t testing.TB, binDir string, scripts map[string]string) {
	t.Helper()

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, script := range scripts {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
