// Package config handles collider and viewer configuration loading and
// management.
package config

// Config holds all settings.
type Config struct {
	Collider  ColliderConfig  `yaml:"collider"`
	Placement PlacementConfig `yaml:"placement"`
	Solver    SolverConfig    `yaml:"solver"`
	Scene     SceneConfig     `yaml:"scene"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ColliderConfig holds spatial index and bake settings.
type ColliderConfig struct {
	CellSize       CellSize `yaml:"cell_size"` // "auto" or a positive edge length
	DropDegenerate bool     `yaml:"drop_degenerate"`
}

// PlacementConfig positions the environment in the world.
type PlacementConfig struct {
	Position    [3]float32 `yaml:"position,flow"`
	RotationDeg [3]float32 `yaml:"rotation_deg,flow"`
	Scale       float32    `yaml:"scale"`
}

// SolverConfig holds swept-constraint settings.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Skin          float32 `yaml:"skin"`
	ProbeRadius   float32 `yaml:"probe_radius"` // player sphere radius
}

// Scene kinds.
const (
	SceneTunnel = "tunnel"
	SceneCube   = "cube"
)

// SceneConfig selects the procedural environment.
type SceneConfig struct {
	Kind     string       `yaml:"kind"`
	CubeSize float32      `yaml:"cube_size"`
	Tunnel   TunnelConfig `yaml:"tunnel"`
}

// TunnelConfig shapes the procedural asteroid tunnel.
type TunnelConfig struct {
	Length   float32 `yaml:"length"`
	Radius   float32 `yaml:"radius"`
	Rings    int     `yaml:"rings"`
	Sides    int     `yaml:"sides"`
	Segments int     `yaml:"segments"`
	Rough    float32 `yaml:"rough"`
	Wander   float32 `yaml:"wander"`
	Seed     uint64  `yaml:"seed"`
}

// ViewerConfig holds debug viewer window and camera settings.
type ViewerConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Fullscreen       bool    `yaml:"fullscreen"`
	VSync            bool    `yaml:"vsync"`
	FOV              float32 `yaml:"fov"`
	MoveSpeed        float32 `yaml:"move_speed"`
	ShowCells        bool    `yaml:"show_cells"`
	ScreenshotDir    string  `yaml:"screenshot_dir"`
	ScreenshotFormat string  `yaml:"screenshot_format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Collider: ColliderConfig{
			CellSize: AutoCellSize(),
		},
		Placement: PlacementConfig{
			Scale: 1,
		},
		Solver: SolverConfig{
			MaxIterations: 3,
			Skin:          0.001,
			ProbeRadius:   1.5,
		},
		Scene: SceneConfig{
			Kind:     SceneTunnel,
			CubeSize: 10,
			Tunnel: TunnelConfig{
				Length:   400,
				Radius:   12,
				Rings:    160,
				Sides:    48,
				Segments: 8,
				Rough:    0.18,
				Wander:   10,
				Seed:     1,
			},
		},
		Viewer: ViewerConfig{
			Width:            1280,
			Height:           720,
			VSync:            true,
			FOV:              70,
			MoveSpeed:        20,
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
