package config

const (
	defaultCatalog       = "scanshelf.sqlite3"
	defaultSourceDir     = "."
	defaultStagingDir    = "~/.local/share/scanshelf/staging"
	defaultLogDir        = "~/.local/share/scanshelf/logs"
	defaultSiteTitle     = "Image Archive"
	defaultThumbnailSize = 100
	defaultExtension     = ".jpg"
	defaultMogrifyBinary = "mogrify"
	defaultZipBinary     = "zip"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Tool backends.
const (
	ToolExternal = "external"
	ToolBuiltin  = "builtin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalog:    defaultCatalog,
			SourceDir:  defaultSourceDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Site: Site{
			Title:         defaultSiteTitle,
			ThumbnailSize: defaultThumbnailSize,
		},
		Scan: Scan{
			Extension: defaultExtension,
			ReadEXIF:  true,
		},
		Tools: Tools{
			Thumbnailer:   ToolExternal,
			Archiver:      ToolExternal,
			MogrifyBinary: defaultMogrifyBinary,
			ZipBinary:     defaultZipBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
