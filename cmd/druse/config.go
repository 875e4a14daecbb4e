package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/export"
	"github.com/chazu/druse/pkg/kernel"
	"github.com/chazu/druse/pkg/kernel/facet"
	"github.com/chazu/druse/pkg/kernel/manifold"
	"github.com/chazu/druse/pkg/kernel/sdfx"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read from the working directory when --config is
// not given. A missing default file is not an error.
const DefaultConfigFile = "druse.toml"

// Config is the contents of druse.toml.
type Config struct {
	LogLevel          string `toml:"log_level"`
	Winding           string `toml:"winding"`
	Distances         string `toml:"distances"`
	ParallelThreshold int    `toml:"parallel_threshold"`
	Strict            bool   `toml:"strict"`
	Kernel            string `toml:"kernel"`
	MeshCells         int    `toml:"mesh_cells"`
	Format            string `toml:"format"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:          "warn",
		Winding:           crystal.Outward.String(),
		Distances:         crystal.Intercept.String(),
		ParallelThreshold: crystal.DefaultParallelThreshold,
		Kernel:            "facet",
		MeshCells:         sdfx.DefaultMeshCells,
		Format:            export.JSON.String(),
	}
}

// loadConfig reads path over the defaults. With explicit false a missing
// file leaves the defaults untouched.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	if err := decodeConfig(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		return err
	}
	return cfg.validate()
}

func (c Config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := crystal.ParseWinding(c.Winding); err != nil {
		return err
	}
	if _, err := crystal.ParseDistanceMode(c.Distances); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must not be negative, got %d", c.ParallelThreshold)
	}
	if c.MeshCells <= 0 {
		return fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells)
	}
	if _, err := c.kernel(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c Config) kernel() (kernel.Kernel, error) {
	switch c.Kernel {
	case "", "facet":
		return facet.New(), nil
	case "sdfx":
		return sdfx.New(c.MeshCells), nil
	case "manifold":
		// Only available in binaries built with -tags=manifold.
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q (want facet, sdfx or manifold)", c.Kernel)
}

func (c Config) format() export.Format {
	f, _ := export.ParseFormat(c.Format)
	return f
}

// options translates the generation settings into crystal options.
func (c Config) options() []crystal.Option {
	w, _ := crystal.ParseWinding(c.Winding)
	m, _ := crystal.ParseDistanceMode(c.Distances)
	opts := []crystal.Option{
		crystal.WithWinding(w),
		crystal.WithDistanceMode(m),
		crystal.WithParallelThreshold(c.ParallelThreshold),
	}
	if c.Strict {
		opts = append(opts, crystal.WithStrict())
	}
	return opts
}

// logger builds the text logger every library package writes to.
func (c Config) logger(w io.Writer) *slog.Logger {
	lvl, _ := c.level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
