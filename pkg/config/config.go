// Package config loads heapstore settings from TOML or INI files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"heapstore/pkg/logging"
	"heapstore/pkg/storage/page"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// StorageConfig controls the on-disk layout.
type StorageConfig struct {
	DataDir  string
	PageSize int
}

// BufferPoolConfig controls the page cache in front of heap files.
type BufferPoolConfig struct {
	Pages           int
	ImageCacheBytes int64
}

// LogConfig mirrors logging.Config in file form.
type LogConfig struct {
	Level  string
	Format string
	Path   string
}

// Config is the full process configuration.
type Config struct {
	Storage    StorageConfig
	BufferPool BufferPoolConfig
	Log        LogConfig
}

const (
	DefaultBufferPoolPages = 50
	DefaultImageCacheBytes = 4 << 20
	minPageSize            = 64
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:  "data",
			PageSize: page.DefaultPageSize,
		},
		BufferPool: BufferPoolConfig{
			Pages:           DefaultBufferPoolPages,
			ImageCacheBytes: DefaultImageCacheBytes,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path and overlays it on Default. The format is chosen by
// extension: ".toml" uses go-toml, ".ini" and ".cnf" use ini.
func Load(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse toml config %s", path)
		}
		if err := cfg.applyTOML(tree); err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}

	case ".ini", ".cnf":
		f, err := ini.Load(path)
		if err != nil {
			return nil, errors.Wrapf(err, "parse ini config %s", path)
		}
		cfg.applyINI(f)

	default:
		return nil, errors.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTOML overlays the keys present in tree. Absent keys keep their defaults.
func (c *Config) applyTOML(tree *toml.Tree) error {
	var err error
	str := func(key string, dst *string) {
		if err != nil || !tree.Has(key) {
			return
		}
		v, ok := tree.Get(key).(string)
		if !ok {
			err = errors.Errorf("%s must be a string", key)
			return
		}
		*dst = v
	}
	num := func(key string, dst *int64) {
		if err != nil || !tree.Has(key) {
			return
		}
		v, ok := tree.Get(key).(int64)
		if !ok {
			err = errors.Errorf("%s must be an integer", key)
			return
		}
		*dst = v
	}

	pageSize := int64(c.Storage.PageSize)
	pages := int64(c.BufferPool.Pages)

	str("storage.data_dir", &c.Storage.DataDir)
	num("storage.page_size", &pageSize)
	num("buffer_pool.pages", &pages)
	num("buffer_pool.image_cache_bytes", &c.BufferPool.ImageCacheBytes)
	str("log.level", &c.Log.Level)
	str("log.format", &c.Log.Format)
	str("log.path", &c.Log.Path)

	c.Storage.PageSize = int(pageSize)
	c.BufferPool.Pages = int(pages)
	return err
}

func (c *Config) applyINI(f *ini.File) {
	storage := f.Section("storage")
	c.Storage.DataDir = storage.Key("data_dir").MustString(c.Storage.DataDir)
	c.Storage.PageSize = storage.Key("page_size").MustInt(c.Storage.PageSize)

	pool := f.Section("buffer_pool")
	c.BufferPool.Pages = pool.Key("pages").MustInt(c.BufferPool.Pages)
	c.BufferPool.ImageCacheBytes = pool.Key("image_cache_bytes").MustInt64(c.BufferPool.ImageCacheBytes)

	log := f.Section("log")
	c.Log.Level = log.Key("level").MustString(c.Log.Level)
	c.Log.Format = log.Key("format").MustString(c.Log.Format)
	c.Log.Path = log.Key("path").MustString(c.Log.Path)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Storage.PageSize < minPageSize {
		return errors.Errorf("page_size must be at least %d, got %d", minPageSize, c.Storage.PageSize)
	}
	if c.BufferPool.Pages <= 0 {
		return errors.Errorf("buffer_pool.pages must be positive, got %d", c.BufferPool.Pages)
	}
	if c.BufferPool.ImageCacheBytes < 0 {
		return errors.Errorf("buffer_pool.image_cache_bytes must not be negative, got %d", c.BufferPool.ImageCacheBytes)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// LoggingConfig converts the [log] section into a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      logging.ParseLevel(c.Log.Level),
		OutputPath: c.Log.Path,
		Format:     c.Log.Format,
	}
}

// Apply installs the page size process-wide and initializes logging.
// It must run before any heap file is opened.
func (c *Config) Apply() error {
	if err := c.Validate(); err != nil {
		return err
	}
	page.SetPageSize(c.Storage.PageSize)
	return logging.Init(c.LoggingConfig())
}
