package snappolish

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/xob0t/SnapPolish/pkg/assets"
	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/config"
	"github.com/xob0t/SnapPolish/pkg/editor"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/render"
)

// Version is the release version.
const Version = "0.3.0"

// Options configures a one-shot render.
type Options struct {
	SubjectPath  string      // screenshot file; empty = placeholder image
	SubjectImage image.Image // in-memory subject, wins over SubjectPath
	Preset       string      // minimal, social, pro; empty = none
	SettingsPath string      // YAML/JSON settings document (optional)
	Settings     *composition.Document
	Config       *config.Config // nil = config.Default()
	OutputDir    string         // empty = do not write the file
	Logger       Logger         // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result is the rendered artifact and the composition it came from.
type Result struct {
	Artifact    *export.Artifact
	Composition composition.Composition
	Path        string // set when OutputDir was given
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// NewSession wires an editor session with a loaded rasterizer from cfg.
func NewSession(cfg config.Config, log Logger) (*editor.Session, error) {
	var rlog render.Logger
	if log != nil {
		rlog = log
	}
	r, err := render.New(cfg.RenderOptions(rlog))
	if err != nil {
		return nil, fmt.Errorf("load rasterizer: %w", err)
	}
	orch := export.New(cfg.ExportPolicy())
	orch.SetRasterizer(r)
	return editor.NewSession(assets.NewStore(), orch), nil
}

// Render runs the pipeline: load the subject, apply the preset, apply the
// settings document, export.
func Render(ctx context.Context, opts Options) (*Result, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s, err := NewSession(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.SubjectImage != nil:
		s.Update(composition.Partial{Subject: composition.NewImage("subject", "subject", opts.SubjectImage)})
	case opts.SubjectPath != "":
		opts.logInfo("Loading %s...", opts.SubjectPath)
		data, err := os.ReadFile(opts.SubjectPath)
		if err != nil {
			return nil, fmt.Errorf("read subject: %w", err)
		}
		img, err := s.LoadImage(editor.SlotSubject, opts.SubjectPath, data)
		if err != nil {
			return nil, fmt.Errorf("load subject: %w", err)
		}
		opts.logInfo("Subject: %dx%d", img.Width, img.Height)
	default:
		opts.logWarn("No subject given, using the placeholder image")
	}

	if opts.Preset != "" {
		if _, ok := s.ApplyPreset(composition.PresetName(opts.Preset)); ok {
			opts.logInfo("Preset: %s", opts.Preset)
		} else {
			opts.logWarn("unknown preset %q — ignored (have %v)", opts.Preset, composition.PresetNames())
		}
	}

	// The settings file applies first; in-memory settings override it.
	if opts.SettingsPath != "" {
		doc, warnings, err := composition.LoadDocument(opts.SettingsPath)
		if err != nil {
			return nil, err
		}
		_, applied := s.ApplyLocal(doc)
		for _, w := range append(warnings, applied...) {
			opts.logWarn("%s", w)
		}
	}
	if opts.Settings != nil {
		_, warnings := s.ApplyLocal(opts.Settings)
		for _, w := range warnings {
			opts.logWarn("%s", w)
		}
	}

	policy := s.Exporter().Config()
	opts.logInfo("Exporting at %gx...", policy.Multiplier)
	a, err := s.Export(ctx)
	if err != nil {
		opts.logError("%s", export.Notice(err))
		return nil, fmt.Errorf("export: %w", err)
	}
	opts.logInfo("Rendered %s (%dx%d)", a.Filename, a.Width, a.Height)

	res := &Result{Artifact: a, Composition: s.Composition()}
	if opts.OutputDir != "" {
		path, err := a.Save(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		res.Path = path
	}
	return res, nil
}
