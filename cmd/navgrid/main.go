// Command navgrid plans a path for one YAML scenario and prints it over the map.
//
// Usage:
//
//	navgrid -config scenario.yaml [-tolerance 0.5] [-log-level debug] [-log-format json] [-trace]
//
// Exit status is 0 for an exact or approximate path, 1 when planning fails and 2 for
// usage or configuration errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/katalvlaran/navgrid/astar"
	"github.com/katalvlaran/navgrid/config"
	"github.com/katalvlaran/navgrid/costmap"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, config.ErrInvalidConfig):
		os.Exit(2)
	default:
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("navgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "scenario YAML file (required)")
	tolerance := fs.Float64("tolerance", -1, "goal tolerance in cells, overrides the scenario when >= 0")
	level := fs.String("log-level", "info", "debug, info, warn or error")
	format := fs.String("log-format", "text", "text or json")
	tracing := fs.Bool("trace", false, "log the planning span at debug level")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if *cfgPath == "" {
		fs.Usage()

		return fmt.Errorf("%w: -config is required", errUsage)
	}

	logger, err := newLogger(stderr, *level, *format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("load scenario", slog.Any("error", err))

		return err
	}
	if *tolerance >= 0 {
		cfg.Planner.Tolerance = *tolerance
	}

	cm, err := cfg.Map.LoadCostmap()
	if err != nil {
		logger.Error("load map", slog.Any("error", err))

		return err
	}
	checker := cfg.Footprint.Checker(cm)
	if checker.InCollision(float64(cfg.Goal.X), float64(cfg.Goal.Y), cfg.Goal.Theta, cfg.Planner.AllowUnknown) {
		logger.Warn("robot footprint collides at the goal pose",
			slog.Uint64("x", uint64(cfg.Goal.X)), slog.Uint64("y", uint64(cfg.Goal.Y)),
			slog.Float64("theta", cfg.Goal.Theta))
	}

	opts := append(cfg.Planner.Options(), astar.WithLogger(logger))
	if *tracing {
		tp := newTracerProvider(logger)
		defer func() { _ = tp.Shutdown(context.Background()) }()
		opts = append(opts, astar.WithTracerProvider(tp))
	}
	planner := astar.New(opts...)
	planner.SetCollisionChecker(checker)
	if err := planner.SetStart(cfg.Start.X, cfg.Start.Y, 0); err != nil {
		return err
	}
	if err := planner.SetGoal(cfg.Goal.X, cfg.Goal.Y, 0); err != nil {
		return err
	}

	res, err := planner.CreatePath(ctx, cfg.Planner.Tolerance)
	logger.Info("planning finished",
		slog.String("plan_id", res.ID.String()),
		slog.String("status", res.Status.String()),
		slog.Uint64("iterations", uint64(res.Iterations)),
		slog.Int("length", len(res.Path)),
		slog.Float64("cost", res.Cost))
	if err != nil {
		return err
	}
	if res.Reason != nil {
		logger.Warn("path is approximate", slog.Any("reason", res.Reason))
	}

	fmt.Fprintf(stdout, "%s path, %d cells, cost %.3f, %d iterations\n",
		res.Status, len(res.Path), res.Cost, res.Iterations)
	render(stdout, cm, res.Path)

	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level: %w", errUsage, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", errUsage, format)
	}
}

// render prints the map with the path drawn as 'o', start 'S' and goal 'G'.
func render(w io.Writer, cm *costmap.Costmap, path []astar.Coordinates) {
	marks := make(map[astar.Coordinates]byte, len(path))
	for _, c := range path {
		marks[c] = 'o'
	}
	if len(path) > 0 {
		marks[path[0]] = 'S'
		marks[path[len(path)-1]] = 'G'
	}

	var sb strings.Builder
	for y := uint32(0); y < cm.SizeInCellsY(); y++ {
		for x := uint32(0); x < cm.SizeInCellsX(); x++ {
			if m, ok := marks[astar.Coordinates{X: x, Y: y}]; ok {
				sb.WriteByte(m)
				continue
			}
			sb.WriteByte(glyph(cm.GetCost(x, y)))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(w, sb.String())
}

func glyph(cost uint8) byte {
	switch {
	case cost == costmap.FreeSpace:
		return costmap.GlyphFree
	case cost == costmap.LethalObstacle:
		return costmap.GlyphLethal
	case cost == costmap.InscribedInflatedObstacle:
		return costmap.GlyphInscribed
	case cost == costmap.NoInformation:
		return costmap.GlyphUnknown
	default:
		return byte('0' + int(cost)*9/int(costmap.MaxNonObstacle))
	}
}
