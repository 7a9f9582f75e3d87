package astar

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Sentinel errors returned by the planner.
var (
	// ErrConfiguration indicates a heading quantization or dim3 the node kind cannot use.
	// The offending value is clamped and the call still takes effect.
	ErrConfiguration = errors.New("astar: invalid configuration")

	// ErrNoMap indicates a search or start/goal request before SetCollisionChecker.
	ErrNoMap = errors.New("astar: no map given")

	// ErrMissingStartOrGoal indicates CreatePath was called without a start or a goal.
	ErrMissingStartOrGoal = errors.New("astar: no valid start or goal given")

	// ErrOutOfBounds indicates a start or goal outside the map.
	ErrOutOfBounds = errors.New("astar: coordinates outside the map")

	// ErrGoalInCollision indicates the goal fails the collision test with zero tolerance.
	ErrGoalInCollision = errors.New("astar: goal is in collision")

	// ErrIterationBudgetExhausted indicates the loop stopped after maxIterations visits.
	ErrIterationBudgetExhausted = errors.New("astar: iteration budget exhausted")

	// ErrTimeBudgetExhausted indicates the loop stopped at the maxPlanningTime deadline.
	ErrTimeBudgetExhausted = errors.New("astar: planning time budget exhausted")

	// ErrApproachBudgetExhausted indicates the search settled for the closest node after
	// spending maxOnApproachIterations within tolerance of the goal.
	ErrApproachBudgetExhausted = errors.New("astar: on-approach iteration budget exhausted")

	// ErrCanceled indicates the caller's context ended the search.
	ErrCanceled = errors.New("astar: planning canceled")

	// ErrNoPathFound indicates the open set emptied without reaching the goal.
	ErrNoPathFound = errors.New("astar: no path found")

	// ErrNoParent indicates a backtrace from a node that was never relaxed.
	ErrNoParent = errors.New("astar: node has no parent")

	// ErrBadTravelCostMultiplier indicates a negative travel-cost multiplier.
	ErrBadTravelCostMultiplier = errors.New("astar: travel cost multiplier must be non-negative")
)

// Status is the outcome class of one CreatePath call.
type Status int

const (
	// StatusFailed means no path is returned.
	StatusFailed Status = iota
	// StatusSucceeded means the path ends at the goal.
	StatusSucceeded
	// StatusApproximate means the path ends at the node closest to the goal, within tolerance.
	StatusApproximate
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusApproximate:
		return "approximate"
	default:
		return "failed"
	}
}

// Result is the typed outcome of CreatePath.
//
// Path runs start → goal (or start → closest node for Approximate).
// Reason is nil for Succeeded, and one of the sentinel errors otherwise.
type Result[C any] struct {
	ID         uuid.UUID
	Path       []C
	Iterations uint32
	Cost       float64
	Status     Status
	Reason     error
}

// Found reports whether a path was produced.
func (r *Result[C]) Found() bool {
	return r != nil && r.Status != StatusFailed
}

// Options configures an Algorithm.
//
// AllowUnknown            – whether NoInformation cells may be traversed.
// MaxIterations           – cap on visited nodes per search.
// MaxOnApproachIterations – visits tolerated once the best node is within tolerance.
// MaxPlanningTime         – wall-clock budget per search, ≤ 0 disables it.
// Dim3Size                – heading quantization; must be 1 for Grid2D.
// TravelCostMultiplier    – weight k of the cell cost in each edge weight.
// GraphReserve            – initial capacity hint for the graph index.
type Options struct {
	AllowUnknown            bool
	MaxIterations           uint32
	MaxOnApproachIterations uint32
	MaxPlanningTime         time.Duration
	Dim3Size                uint32
	TravelCostMultiplier    float64
	GraphReserve            int

	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Clock          func() time.Time
}

// Option represents a functional option for configuring an Algorithm.
type Option func(*Options)

// DefaultGraphReserve is the default up-front graph capacity.
const DefaultGraphReserve = 100000

// DefaultOptions returns the planner defaults.
//
// Defaults:
//   - AllowUnknown:            true
//   - MaxIterations:           1,000,000
//   - MaxOnApproachIterations: 1000
//   - MaxPlanningTime:         2s
//   - Dim3Size:                1
//   - TravelCostMultiplier:    2.0
//   - GraphReserve:            DefaultGraphReserve
//   - Logger:                  discards everything
//   - Tracer/Meter providers:  no-op
//   - Clock:                   time.Now
func DefaultOptions() Options {
	return Options{
		AllowUnknown:            true,
		MaxIterations:           1_000_000,
		MaxOnApproachIterations: 1000,
		MaxPlanningTime:         2 * time.Second,
		Dim3Size:                1,
		TravelCostMultiplier:    2.0,
		GraphReserve:            DefaultGraphReserve,
		Logger:                  slog.New(slog.DiscardHandler),
		Clock:                   time.Now,
	}
}

// WithAllowUnknown sets whether unknown cells are traversable.
func WithAllowUnknown(allow bool) Option {
	return func(o *Options) { o.AllowUnknown = allow }
}

// WithMaxIterations caps visited nodes per search.
func WithMaxIterations(n uint32) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithMaxOnApproachIterations sets the patience counter used near the goal.
func WithMaxOnApproachIterations(n uint32) Option {
	return func(o *Options) { o.MaxOnApproachIterations = n }
}

// WithMaxPlanningTime sets the wall-clock budget; d ≤ 0 disables the deadline.
func WithMaxPlanningTime(d time.Duration) Option {
	return func(o *Options) { o.MaxPlanningTime = d }
}

// WithDim3Size sets the heading quantization.
func WithDim3Size(n uint32) Option {
	return func(o *Options) { o.Dim3Size = n }
}

// WithTravelCostMultiplier sets k in step·(1 + k·cost/MaxNonObstacle).
// Panics on a negative value.
func WithTravelCostMultiplier(k float64) Option {
	return func(o *Options) {
		if k < 0 {
			panic(ErrBadTravelCostMultiplier.Error())
		}
		o.TravelCostMultiplier = k
	}
}

// WithGraphReserve sets the graph capacity hint. Values below zero mean no reserve.
func WithGraphReserve(n int) Option {
	return func(o *Options) { o.GraphReserve = n }
}

// WithLogger routes diagnostics to l. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTracerProvider enables a span per CreatePath.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) { o.TracerProvider = tp }
}

// WithMeterProvider enables plan counters and iteration histograms.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) { o.MeterProvider = mp }
}

// WithClock replaces time.Now for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Clock = now
		}
	}
}
