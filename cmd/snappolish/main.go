package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	snappolish "github.com/xob0t/SnapPolish"
	"github.com/xob0t/SnapPolish/clients/server"
	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/config"
)

const version = snappolish.Version

var (
	configPath   string
	outputDir    string
	presetName   string
	settingsPath string
	ultra        bool
	multiplier   float64
	transparent  bool
	noCORS       bool
	product      string

	addr      string
	noBrowser bool

	force bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snappolish",
		Short: "Turn screenshots into polished presentation images",
		Long:  "Frame a screenshot in a browser or phone mockup on a styled background and export it as a high-resolution PNG",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file (YAML)")

	renderCmd := &cobra.Command{
		Use:   "render [screenshot]",
		Short: "Render a screenshot to a PNG",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRender,
	}
	renderCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default from config)")
	renderCmd.Flags().StringVarP(&presetName, "preset", "p", "", "Preset to apply first: minimal, social, pro")
	renderCmd.Flags().StringVarP(&settingsPath, "settings", "s", "", "Settings document (YAML or JSON)")
	renderCmd.Flags().BoolVar(&ultra, "ultra", false, "Export at 4x resolution")
	renderCmd.Flags().Float64VarP(&multiplier, "multiplier", "m", 0, "Resolution multiplier (overrides config)")
	renderCmd.Flags().BoolVar(&transparent, "transparent", false, "Leave the canvas background transparent")
	renderCmd.Flags().BoolVar(&noCORS, "no-cors", false, "Refuse to fetch remote images")
	renderCmd.Flags().StringVar(&product, "product", "", "Filename prefix (default from config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local editor",
		Args:  cobra.NoArgs,
		Run:   runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write example settings.yaml and config files",
		Args:  cobra.NoArgs,
		Run:   runInit,
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		Run:   runPresets,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("snappolish version %s\n", version)
		},
	}

	rootCmd.AddCommand(renderCmd, serveCmd, initCmd, presetsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	return cfg
}

func runRender(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	cfg := loadConfig()
	if ultra {
		cfg.Export.Ultra = true
	}
	if multiplier > 0 {
		cfg.Export.Multiplier = multiplier
		cfg.Export.Ultra = false
	}
	if transparent {
		cfg.Export.TransparentBackground = true
	}
	if noCORS {
		cfg.Export.AllowCrossOrigin = false
	}
	if product != "" {
		cfg.Export.Product = product
	}
	out := cfg.Export.OutputDir
	if outputDir != "" {
		out = outputDir
	}
	if out == "" {
		out = "."
	}

	opts := snappolish.Options{
		Preset:       presetName,
		SettingsPath: settingsPath,
		Config:       &cfg,
		OutputDir:    out,
		Logger:       &cliLogger{},
	}
	if len(args) == 1 {
		opts.SubjectPath = args[0]
	}

	cyan.Println("\n📸 SnapPolish")
	cyan.Println("=============")

	res, err := snappolish.Render(cmd.Context(), opts)
	if err != nil {
		fatal(err)
	}
	green.Printf("\n✨ Wrote %s (%dx%d)\n\n", res.Path, res.Artifact.Width, res.Artifact.Height)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if noBrowser {
		cfg.Server.OpenBrowser = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, cfg, &cliLogger{}); err != nil {
		fatal(err)
	}
}

func runInit(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)

	cfgData, err := config.Default().Marshal()
	if err != nil {
		fatal(err)
	}
	files := []struct {
		path string
		data []byte
	}{
		{"settings.yaml", []byte(composition.ExampleSettings())},
		{configPath, cfgData},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !force {
			(&cliLogger{}).Warnf("%s exists — skipped (use --force to overwrite)", f.path)
			continue
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			fatal(err)
		}
		green.Printf("✓ %s\n", f.path)
	}
	fmt.Println("\nNext: snappolish render screenshot.png --settings settings.yaml")
}

func runPresets(cmd *cobra.Command, args []string) {
	bold := color.New(color.Bold)
	for _, name := range composition.PresetNames() {
		p := composition.Presets[name]
		bold.Printf("  %-8s", name)
		fmt.Printf(" %s (padding %g, %s, %s)\n", p.Description, p.Padding, p.Mockup, p.AspectRatio)
	}
}

func fatal(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// cliLogger implements snappolish.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
