// Package snappolish turns a screenshot into a presentation image: the
// screenshot is framed in a browser or phone mockup, placed on a background
// with padding and a drop shadow, optionally rotated and tilted, color
// adjusted, badged and watermarked, and exported as a single PNG.
//
// The CLI lives in cmd/snappolish and the local editor in clients/server;
// this root package exposes the one-shot render pipeline as a Go API.
//
// # Quick start
//
//	res, err := snappolish.Render(ctx, snappolish.Options{
//	    SubjectPath:  "screenshot.png",
//	    Preset:       "social",
//	    SettingsPath: "settings.yaml",
//	    OutputDir:    "out",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Path) // out/snappolish-design.png
//
// # Pipeline
//
// A [composition.Composition] holds every styling parameter. Presets and
// settings documents are merged onto it; out-of-range numbers are clamped
// and unknown values ignored with a warning. [layout.Resolve] turns it into
// an ordered visual stack, and the export orchestrator hands that stack to
// the rasterizer at the configured resolution multiplier (2× by default,
// 4× in ultra mode).
//
// # Logging
//
// Pass a [Logger] in [Options.Logger] to receive progress and warnings. A nil
// Logger silences all output.
package snappolish
