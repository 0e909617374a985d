package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every tuning constant of the simulation in one immutable
// object. A Config is copied into the world (and partially into each body) at
// construction; changing it afterwards has no effect on live objects.
type Config struct {
	// Contour spring model.
	RestStiffness     float64 `yaml:"rest_stiffness"`     // pull of each node back to the base circle
	NeighborStiffness float64 `yaml:"neighbor_stiffness"` // ring coupling between adjacent nodes
	SpringDamping     float64 `yaml:"spring_damping"`     // sub-unit velocity decay per node per tick
	ContourNodes      int     `yaml:"contour_nodes"`      // boundary samples per body

	// Growth animation.
	GrowthDuration float64 `yaml:"growth_duration"` // simulated time to reach full size

	// World forces.
	GravityConstant float64 `yaml:"gravity_constant"`
	MaxGravityForce float64 `yaml:"max_gravity_force"`
	CenterDamping   float64 `yaml:"center_damping"` // global per-tick velocity decay

	// Collision response.
	Restitution                float64 `yaml:"restitution"`
	CollisionVelocityScale     float64 `yaml:"collision_velocity_scale"`
	CollisionDeformationFactor float64 `yaml:"collision_deformation_factor"`

	// Boundary sampling mode: false snaps to the nearest contour node,
	// true interpolates between the two bracketing nodes.
	InterpolateContour bool `yaml:"interpolate_contour"`

	// Spawning.
	MaxBodies             int     `yaml:"max_bodies"`
	InitialBodies         int     `yaml:"initial_bodies"`
	InitialSpeed          float64 `yaml:"initial_speed"` // per-axis bound for the random spawn velocity
	SpawnRadiusMin        float64 `yaml:"spawn_radius_min"`
	SpawnRadiusMax        float64 `yaml:"spawn_radius_max"`
	PointerSpawnRadiusMin float64 `yaml:"pointer_spawn_radius_min"`
	PointerSpawnRadiusMax float64 `yaml:"pointer_spawn_radius_max"`

	// Input and clock.
	MouseImpulseFactor float64 `yaml:"mouse_impulse_factor"`
	TimeScale          float64 `yaml:"time_scale"` // wall-clock seconds -> simulated units
	MaxStep            float64 `yaml:"max_step"`   // upper bound on a single simulated timestep

	// Window.
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`
}

// Default returns the tuning used when no config file is supplied.
func Default() Config {
	return Config{
		RestStiffness:     0.1,
		NeighborStiffness: 0.15,
		SpringDamping:     0.92,
		ContourNodes:      40,

		GrowthDuration: 20,

		GravityConstant: 0.05,
		MaxGravityForce: 2.0,
		CenterDamping:   0.995,

		Restitution:                0.1,
		CollisionVelocityScale:     0.2,
		CollisionDeformationFactor: 0.3,

		InterpolateContour: false,

		MaxBodies:             64,
		InitialBodies:         5,
		InitialSpeed:          1.5,
		SpawnRadiusMin:        30,
		SpawnRadiusMax:        60,
		PointerSpawnRadiusMin: 60,
		PointerSpawnRadiusMax: 70,

		MouseImpulseFactor: 0.05,
		TimeScale:          10,
		MaxStep:            1.0,

		ScreenWidth:  1024,
		ScreenHeight: 768,
	}
}

// Load reads a YAML tuning file and overlays it on the defaults, so a file
// only needs to name the fields it changes.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with. Physical tuning
// (stiffness, gravity, damping magnitudes) is deliberately unchecked: odd
// values give odd motion, not crashes.
func (c Config) Validate() error {
	if c.ContourNodes < 3 {
		return fmt.Errorf("contour_nodes must be at least 3, got %d", c.ContourNodes)
	}
	if c.GrowthDuration <= 0 {
		return fmt.Errorf("growth_duration must be positive, got %f", c.GrowthDuration)
	}
	if c.MaxBodies <= 0 {
		return fmt.Errorf("max_bodies must be positive, got %d", c.MaxBodies)
	}
	if c.SpawnRadiusMin <= 1 || c.SpawnRadiusMax < c.SpawnRadiusMin {
		return fmt.Errorf("spawn radius range [%f, %f] is invalid", c.SpawnRadiusMin, c.SpawnRadiusMax)
	}
	if c.PointerSpawnRadiusMin <= 1 || c.PointerSpawnRadiusMax < c.PointerSpawnRadiusMin {
		return fmt.Errorf("pointer spawn radius range [%f, %f] is invalid", c.PointerSpawnRadiusMin, c.PointerSpawnRadiusMax)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %f", c.TimeScale)
	}
	if c.MaxStep <= 0 {
		return fmt.Errorf("max_step must be positive, got %f", c.MaxStep)
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("screen size %dx%d is invalid", c.ScreenWidth, c.ScreenHeight)
	}
	return nil
}
