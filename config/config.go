// Package config loads planning scenarios from YAML files.
//
// A scenario names a map (an ASCII grid file or an empty map of a given size), the
// robot footprint, the planner budgets and a start/goal pair:
//
//	map:
//	  file: warehouse.txt     # relative to the scenario file
//	  resolution: 0.05
//	footprint:
//	  points: [[-0.3, -0.2], [0.3, -0.2], [0.3, 0.2], [-0.3, 0.2]]
//	  quantizations: 16
//	planner:
//	  max_iterations: 200000
//	  max_planning_time: 500ms
//	  tolerance: 0.5
//	start: {x: 1, y: 1}
//	goal:  {x: 40, y: 12, theta: 1.57}
//
// Missing keys keep the values of Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/navgrid/astar"
	"github.com/katalvlaran/navgrid/collision"
	"github.com/katalvlaran/navgrid/costmap"
	"github.com/katalvlaran/navgrid/footprint"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid scenario")

// Config is one planning scenario.
type Config struct {
	Map       MapConfig       `yaml:"map"`
	Footprint FootprintConfig `yaml:"footprint"`
	Planner   PlannerConfig   `yaml:"planner"`
	Start     Pose            `yaml:"start"`
	Goal      Pose            `yaml:"goal"`
}

// MapConfig selects the costmap. With File set the grid shape comes from the file and
// Width/Height are ignored.
type MapConfig struct {
	File             string `yaml:"file,omitempty"`
	costmap.Settings `yaml:",inline"`
}

// FootprintConfig describes the robot outline in meters, robot frame.
type FootprintConfig struct {
	Points                [][2]float64 `yaml:"points,omitempty"`
	UseRadius             bool         `yaml:"use_radius"`
	PossibleCollisionCost float64      `yaml:"possible_collision_cost"`
	Quantizations         uint32       `yaml:"quantizations"`
}

// PlannerConfig mirrors astar.Options plus the search tolerance.
type PlannerConfig struct {
	AllowUnknown            bool    `yaml:"allow_unknown"`
	MaxIterations           uint32  `yaml:"max_iterations"`
	MaxOnApproachIterations uint32  `yaml:"max_on_approach_iterations"`
	MaxPlanningTime         string  `yaml:"max_planning_time"` // Go duration, "0" disables
	Dim3Size                uint32  `yaml:"dim3_size"`
	TravelCostMultiplier    float64 `yaml:"travel_cost_multiplier"`
	Tolerance               float64 `yaml:"tolerance"`
}

// Pose is a map cell plus a heading in radians.
type Pose struct {
	X     uint32  `yaml:"x"`
	Y     uint32  `yaml:"y"`
	Theta float64 `yaml:"theta,omitempty"`
}

// Default returns a scenario carrying the planner and costmap defaults.
func Default() *Config {
	o := astar.DefaultOptions()

	return &Config{
		Map: MapConfig{Settings: costmap.DefaultSettings()},
		Footprint: FootprintConfig{
			UseRadius:             true,
			PossibleCollisionCost: collision.DefaultCollisionCost,
			Quantizations:         1,
		},
		Planner: PlannerConfig{
			AllowUnknown:            o.AllowUnknown,
			MaxIterations:           o.MaxIterations,
			MaxOnApproachIterations: o.MaxOnApproachIterations,
			MaxPlanningTime:         o.MaxPlanningTime.String(),
			Dim3Size:                o.Dim3Size,
			TravelCostMultiplier:    o.TravelCostMultiplier,
		},
	}
}

// Load reads and validates the scenario at path. A relative Map.File is resolved
// against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Map.File != "" && !filepath.IsAbs(cfg.Map.File) {
		cfg.Map.File = filepath.Join(filepath.Dir(path), cfg.Map.File)
	}

	return cfg, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first inconsistency, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Map.File == "" && (c.Map.Width == 0 || c.Map.Height == 0) {
		return fmt.Errorf("%w: map needs a file or a non-zero width and height", ErrInvalidConfig)
	}
	if c.Map.File == "" && (c.Start.X >= c.Map.Width || c.Start.Y >= c.Map.Height ||
		c.Goal.X >= c.Map.Width || c.Goal.Y >= c.Map.Height) {
		return fmt.Errorf("%w: start or goal outside %dx%d map", ErrInvalidConfig, c.Map.Width, c.Map.Height)
	}
	if c.Map.Resolution < 0 {
		return fmt.Errorf("%w: negative resolution %g", ErrInvalidConfig, c.Map.Resolution)
	}
	if !c.Footprint.UseRadius && len(c.Footprint.Points) < 3 {
		return fmt.Errorf("%w: polygon footprint needs at least 3 points, got %d",
			ErrInvalidConfig, len(c.Footprint.Points))
	}
	if c.Planner.TravelCostMultiplier < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, astar.ErrBadTravelCostMultiplier)
	}
	if c.Planner.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrInvalidConfig, c.Planner.Tolerance)
	}
	if _, err := c.Planner.GetMaxPlanningTime(); err != nil {
		return fmt.Errorf("%w: max_planning_time: %w", ErrInvalidConfig, err)
	}

	return nil
}

// GetMaxPlanningTime parses MaxPlanningTime. An empty value means no deadline.
func (p PlannerConfig) GetMaxPlanningTime() (time.Duration, error) {
	if p.MaxPlanningTime == "" {
		return 0, nil
	}

	return time.ParseDuration(p.MaxPlanningTime)
}

// Options converts the planner section into astar options.
func (p PlannerConfig) Options() []astar.Option {
	d, _ := p.GetMaxPlanningTime()

	return []astar.Option{
		astar.WithAllowUnknown(p.AllowUnknown),
		astar.WithMaxIterations(p.MaxIterations),
		astar.WithMaxOnApproachIterations(p.MaxOnApproachIterations),
		astar.WithMaxPlanningTime(d),
		astar.WithDim3Size(p.Dim3Size),
		astar.WithTravelCostMultiplier(p.TravelCostMultiplier),
	}
}

// Polygon returns the configured outline; nil for an empty point list.
func (f FootprintConfig) Polygon() footprint.Footprint {
	if len(f.Points) == 0 {
		return nil
	}
	fp := make(footprint.Footprint, len(f.Points))
	for i, p := range f.Points {
		fp[i] = orb.Point{p[0], p[1]}
	}

	return fp
}

// Checker builds a collision checker over cm with the configured footprint installed.
func (f FootprintConfig) Checker(cm *costmap.Costmap) *collision.GridCollisionChecker {
	c := collision.New(cm, f.Quantizations)
	c.SetFootprint(f.Polygon(), f.UseRadius, f.PossibleCollisionCost)

	return c
}

// LoadCostmap reads Map.File, or allocates an empty Width×Height map when no file is set.
func (m MapConfig) LoadCostmap() (*costmap.Costmap, error) {
	if m.File == "" {
		return costmap.New(m.Settings), nil
	}
	f, err := os.Open(m.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	cm, err := costmap.ParseASCII(f, m.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map file %s: %w", m.File, err)
	}

	return cm, nil
}
