// Package config loads the snappolish.yaml tool configuration: export policy,
// rasterizer limits and the local editor server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/render"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "snappolish.yaml"

type Config struct {
	Export ExportConfig `yaml:"export"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
}

// ExportConfig is the orchestrator policy. Ultra switches the multiplier to
// export.UltraMultiplier.
type ExportConfig struct {
	Multiplier            float64       `yaml:"multiplier"`
	Ultra                 bool          `yaml:"ultra"`
	SettleDelay           time.Duration `yaml:"settleDelay"`
	Product               string        `yaml:"product"`
	TransparentBackground bool          `yaml:"transparentBackground"`
	AllowCrossOrigin      bool          `yaml:"allowCrossOrigin"`
	OutputDir             string        `yaml:"outputDir"`
}

type RenderConfig struct {
	FontPath     string        `yaml:"fontPath"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	MaxPixels    int           `yaml:"maxPixels"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	OpenBrowser bool   `yaml:"openBrowser"`
}

// Default returns the built-in configuration.
func Default() Config {
	ec := export.DefaultConfig()
	return Config{
		Export: ExportConfig{
			Multiplier:       ec.Multiplier,
			SettleDelay:      ec.SettleDelay,
			Product:          ec.Product,
			AllowCrossOrigin: ec.AllowCrossOrigin,
			OutputDir:        ".",
		},
		Render: RenderConfig{
			FetchTimeout: render.DefaultFetchTimeout,
			MaxPixels:    render.DefaultMaxPixels,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			OpenBrowser: true,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.Export.Multiplier <= 0 {
		return fmt.Errorf("export.multiplier must be > 0, got %v", c.Export.Multiplier)
	}
	if c.Export.SettleDelay < 0 {
		return fmt.Errorf("export.settleDelay must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// ExportPolicy converts the export section to the orchestrator policy.
func (c Config) ExportPolicy() export.Config {
	mult := c.Export.Multiplier
	if c.Export.Ultra {
		mult = export.UltraMultiplier
	}
	return export.Config{
		Multiplier:            mult,
		SettleDelay:           c.Export.SettleDelay,
		Product:               c.Export.Product,
		TransparentBackground: c.Export.TransparentBackground,
		AllowCrossOrigin:      c.Export.AllowCrossOrigin,
	}
}

// RenderOptions converts the render section to rasterizer options.
func (c Config) RenderOptions(log render.Logger) render.Options {
	return render.Options{
		FontPath:     c.Render.FontPath,
		FetchTimeout: c.Render.FetchTimeout,
		MaxPixels:    c.Render.MaxPixels,
		Logger:       log,
	}
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
