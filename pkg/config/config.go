// Package config loads digtower.toml, the optional project settings file.
//
// Every field has a default, so a project without the file behaves exactly
// like one with an empty file. Command-line flags are applied on top of the
// loaded values by the CLI before [Config.Validate] runs.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/digtower/pkg/errors"
)

// FileName is the settings file looked up at the project root.
const FileName = "digtower.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
)

// SupportedFormats lists the artifact formats a batch can write. The HTML
// page always embeds the SVG, so "svg" is implied.
var SupportedFormats = []string{"svg", "png", "dot", "json"}

// Config is the parsed settings file.
type Config struct {
	Project Project `toml:"project"`
	Output  Output  `toml:"output"`
	Resolve Resolve `toml:"resolve"`
	Cache   Cache   `toml:"cache"`
	Serve   Serve   `toml:"serve"`
}

// Project selects the definition files.
type Project struct {
	Extension  string `toml:"extension"`
	ExcludeDir string `toml:"exclude_dir"`
}

// Output controls where and what the batch writes.
type Output struct {
	Dir           string   `toml:"dir"`
	PageExtension string   `toml:"page_extension"`
	HomeHref      string   `toml:"home_href"`
	Formats       []string `toml:"formats"`
	EdgeColor     string   `toml:"edge_color"`
	Flat          bool     `toml:"flat"`
}

// Resolve configures call>/require> resolution.
type Resolve struct {
	TieBreak string `toml:"tie_break"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	RedisURL  string   `toml:"redis_url"`
	KeyPrefix string   `toml:"key_prefix"` // namespaces keys in a shared backend
	TTL       Duration `toml:"ttl"`
}

// Serve configures the preview server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration read from a TOML string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Project: Project{Extension: ".dig", ExcludeDir: "config"},
		Output: Output{
			Dir:           "site",
			PageExtension: "html",
			HomeHref:      "../../index.html",
			Formats:       []string{"svg"},
			EdgeColor:     "red",
		},
		Resolve: Resolve{TieBreak: "last"},
		Cache:   Cache{Backend: BackendFile, TTL: Duration{24 * time.Hour}},
		Serve:   Serve{Addr: ":8080"},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// LoadProject loads FileName from the project root.
func LoadProject(root string) (Config, error) {
	return Load(filepath.Join(root, FileName))
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	if err := errors.ValidateExtension(c.Project.Extension); err != nil {
		return err
	}
	if c.Output.Dir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output dir cannot be empty")
	}
	if len(c.Output.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one output format is required")
	}
	if err := errors.ValidateFormats(c.Output.Formats, SupportedFormats); err != nil {
		return err
	}
	if err := errors.ValidateTieBreak(c.Resolve.TieBreak); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be file, none or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	return nil
}
