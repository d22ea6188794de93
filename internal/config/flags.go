package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and grid cell overlay")
	flagCellSize   = flag.String("cell-size", "", `Grid cell size: "auto" or a number`)
	flagScene      = flag.String("scene", "", "Scene kind: tunnel or cube")
	flagSeed       = flag.Uint64("seed", 0, "Tunnel generator seed")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Viewer.ShowCells = true
	}
	if *flagCellSize != "" {
		cs, err := ParseCellSize(*flagCellSize)
		if err != nil {
			return err
		}
		cfg.Collider.CellSize = cs
	}
	if *flagScene != "" {
		cfg.Scene.Kind = *flagScene
	}
	if *flagSeed != 0 {
		cfg.Scene.Tunnel.Seed = *flagSeed
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	return nil
}
