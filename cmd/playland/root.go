package main

import (
	"os"
	"time"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/app"
	"deedles.dev/playland/internal/config"
	"deedles.dev/playland/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logrus.Entry

	flags struct {
		configPath string
		verbose    bool
		logLevel   string
		width      int
		height     int
		title      string
		renderer   string
		color      string
		seed       uint64
	}
)

var rootCmd = &cobra.Command{
	Use:   "playland",
	Short: "Open a Wayland window and fill it with noise",
	Long: `playland connects to the Wayland compositor named by $WAYLAND_DISPLAY,
opens a single toplevel window backed by shared memory, and repaints it
every frame until the window is closed or the exit key is pressed.

Set WAYLAND_DEBUG=1 to trace protocol traffic.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runWindow,
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config file (default: ~/.config/playland/config.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	f := rootCmd.Flags()
	f.IntVar(&flags.width, "width", 0, "Window width in pixels")
	f.IntVar(&flags.height, "height", 0, "Window height in pixels")
	f.StringVar(&flags.title, "title", "", "Window title")
	f.StringVar(&flags.renderer, "renderer", "", "Renderer to fill the window with (noise, solid)")
	f.StringVar(&flags.color, "color", "", "Color name for the solid renderer")
	f.Uint64Var(&flags.seed, "seed", 0, "Seed for the noise renderer (0 seeds from the clock)")

	rootCmd.AddCommand(globalsCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(flags.configPath)
	if err != nil {
		return usageError{err}
	}
	applyFlags(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return usageError{err}
	}

	setupLogger()
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("width") {
		cfg.Window.Width = flags.width
	}
	if changed("height") {
		cfg.Window.Height = flags.height
	}
	if changed("title") {
		cfg.Window.Title = flags.title
	}
	if changed("renderer") {
		cfg.Render.Renderer = flags.renderer
	}
	if changed("color") {
		cfg.Render.Color = flags.color
	}
	if changed("seed") {
		cfg.Render.Seed = flags.seed
	}
}

func setupLogger() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	if flags.verbose && (level < logrus.DebugLevel) {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	log = logrus.NewEntry(logger)
}

func runWindow(cmd *cobra.Command, args []string) error {
	seed := cfg.Render.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	renderer, err := render.New(cfg.Render.Renderer, cfg.Render.Color, seed)
	if err != nil {
		return usageError{err}
	}

	display, err := wl.Dial()
	if err != nil {
		return err
	}
	defer display.Close()

	window := app.New(display, app.Options{
		Config:   cfg,
		Log:      log,
		Renderer: renderer,
	})
	defer func() {
		err := window.Close()
		if err != nil {
			log.WithError(err).Warn("close window")
		}
	}()

	err = window.Setup()
	if err != nil {
		return err
	}
	if window.Live() {
		log.WithFields(logrus.Fields{
			"width":  cfg.Window.Width,
			"height": cfg.Window.Height,
		}).Info("window visible")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return window.Run(ctx)
}
