package astar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/navgrid/collision"
)

// approachEpsilon is the tolerance below which the goal must be collision-free.
const approachEpsilon = 0.001

// Algorithm is an A* planner over node kind C.
//
// Configure it once (options or Initialize), bind a collision checker, set start and
// goal, then call CreatePath as often as needed. It is not safe for concurrent use.
type Algorithm[C any] struct {
	kind   Kind[C]
	opts   Options
	logger *slog.Logger
	tel    *telemetry

	checker *collision.GridCollisionChecker
	space   NodeSpace[C]
	graph   *Graph
	open    openSet[C]
	get     NeighborGetter

	startIdx, goalIdx uint32
	hasStart, hasGoal bool
	goalCoords        C

	bestH   float64
	bestIdx uint32
	scratch []*Node
}

// New returns a 2-D grid planner.
func New(opts ...Option) *Algorithm[Coordinates] {
	return NewAlgorithm(Grid2DKind, opts...)
}

// NewAlgorithm returns a planner for node kind k.
// An invalid Dim3Size is logged and clamped to 1.
func NewAlgorithm[C any](k Kind[C], opts ...Option) *Algorithm[C] {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &Algorithm[C]{
		kind:   k,
		opts:   o,
		logger: o.Logger.With(slog.String("component", "astar"), slog.String("kind", k.Name)),
		graph:  NewGraph(o.GraphReserve),
		bestH:  math.Inf(1),
	}
	if err := a.checkDim3Size(o.Dim3Size); err != nil {
		a.opts.Dim3Size = 1
	}

	tel, err := newTelemetry(o.TracerProvider, o.MeterProvider)
	if err != nil {
		a.logger.Warn("telemetry disabled", slog.Any("error", err))
		tel = noopTelemetry()
	}
	a.tel = tel

	a.get = func(index uint32) (*Node, bool) {
		if a.space == nil || index >= a.space.Size() {
			return nil, false
		}

		return a.graph.Add(index), true
	}

	return a
}

// Initialize replaces the search configuration.
// A dim3Size the node kind cannot use is clamped to 1; the rest of the configuration
// is still applied and an ErrConfiguration-wrapped error is returned.
func (a *Algorithm[C]) Initialize(
	allowUnknown bool,
	maxIterations, maxOnApproachIterations uint32,
	maxPlanningTime time.Duration,
	dim3Size uint32,
) error {
	a.opts.AllowUnknown = allowUnknown
	a.opts.MaxIterations = maxIterations
	a.opts.MaxOnApproachIterations = maxOnApproachIterations
	a.opts.MaxPlanningTime = maxPlanningTime
	a.opts.Dim3Size = dim3Size

	if err := a.checkDim3Size(dim3Size); err != nil {
		a.opts.Dim3Size = 1

		return err
	}

	return nil
}

func (a *Algorithm[C]) checkDim3Size(size uint32) error {
	if a.kind.ValidDim3 == nil || a.kind.ValidDim3(size) {
		return nil
	}
	a.logger.Warn("heading quantization not supported, using 1", slog.Uint64("dim3_size", uint64(size)))

	return fmt.Errorf("%w: dim3 size %d for node kind %s", ErrConfiguration, size, a.kind.Name)
}

// Options returns the active configuration.
func (a *Algorithm[C]) Options() Options { return a.opts }

// SetCollisionChecker binds checker and its costmap and drops the graph, start and goal.
func (a *Algorithm[C]) SetCollisionChecker(checker *collision.GridCollisionChecker) {
	a.checker = checker
	a.space = nil
	if checker != nil && checker.Costmap() != nil {
		a.space = a.kind.NewSpace(checker, a.opts)
	}
	a.graph.Clear()
	a.hasStart, a.hasGoal = false, false
}

// CollisionChecker returns the bound checker, nil before SetCollisionChecker.
func (a *Algorithm[C]) CollisionChecker() *collision.GridCollisionChecker { return a.checker }

// Graph exposes the node arena, mainly for inspection in tests and tools.
func (a *Algorithm[C]) Graph() *Graph { return a.graph }

// SetStart records the start cell (mx, my). A non-zero dim3 is clamped to 0 and
// reported as ErrConfiguration while the start is still set.
func (a *Algorithm[C]) SetStart(mx, my, dim3 uint32) error {
	idx, cfgErr, err := a.locate("start", mx, my, dim3)
	if err != nil {
		return err
	}
	a.graph.Add(idx)
	a.startIdx, a.hasStart = idx, true

	return cfgErr
}

// SetGoal records the goal cell (mx, my) and its coordinates for the heuristic.
// dim3 is handled as in SetStart.
func (a *Algorithm[C]) SetGoal(mx, my, dim3 uint32) error {
	idx, cfgErr, err := a.locate("goal", mx, my, dim3)
	if err != nil {
		return err
	}
	a.graph.Add(idx)
	a.goalIdx, a.hasGoal = idx, true
	a.goalCoords = a.space.Coords(idx)

	return cfgErr
}

// locate validates a start or goal request. cfgErr is a non-fatal configuration error,
// err a fatal one.
func (a *Algorithm[C]) locate(what string, mx, my, dim3 uint32) (idx uint32, cfgErr, err error) {
	if a.space == nil {
		a.logger.Error("cannot set "+what+", no map given")

		return 0, nil, ErrNoMap
	}
	if dim3 != 0 {
		a.logger.Warn("non-zero dim3 not supported, using 0",
			slog.String("target", what), slog.Uint64("dim3", uint64(dim3)))
		cfgErr = fmt.Errorf("%w: %s dim3 %d for node kind %s", ErrConfiguration, what, dim3, a.kind.Name)
		dim3 = 0
	}
	idx, ok := a.space.Index(mx, my, dim3)
	if !ok {
		a.logger.Error(what+" outside the map", slog.Uint64("x", uint64(mx)), slog.Uint64("y", uint64(my)))

		return 0, nil, fmt.Errorf("%w: %s (%d,%d)", ErrOutOfBounds, what, mx, my)
	}

	return idx, cfgErr, nil
}

// Start returns the start coordinates.
func (a *Algorithm[C]) Start() (C, bool) {
	var zero C
	if !a.hasStart || a.space == nil {
		return zero, false
	}

	return a.space.Coords(a.startIdx), true
}

// Goal returns the goal coordinates.
func (a *Algorithm[C]) Goal() (C, bool) {
	var zero C
	if !a.hasGoal {
		return zero, false
	}

	return a.goalCoords, true
}

// CreatePath searches from start to goal.
//
// tolerance is the heuristic distance within which the closest node reached is an
// acceptable end point; 0 demands the exact goal. The returned Result is never nil.
// The error is non-nil exactly when Result.Status is StatusFailed and equals
// Result.Reason; an Approximate result carries the budget that ended the search in
// Reason with a nil error.
func (a *Algorithm[C]) CreatePath(ctx context.Context, tolerance float64) (*Result[C], error) {
	res := &Result[C]{ID: uuid.New()}
	ctx, span := a.tel.start(ctx, a.kind.Name)
	defer record(ctx, a.tel, span, res)

	log := a.logger.With(slog.String("plan_id", res.ID.String()))

	a.open.reset()
	a.bestH, a.bestIdx = math.Inf(1), 0
	a.graph.NewSearch()

	if err := a.validate(tolerance); err != nil {
		log.Error("failed to compute path", slog.Any("error", err))

		return a.fail(res, err)
	}

	var deadline time.Time
	if a.opts.MaxPlanningTime > 0 {
		deadline = a.opts.Clock().Add(a.opts.MaxPlanningTime)
	}

	start := a.graph.Add(a.startIdx)
	goal := a.graph.Add(a.goalIdx)
	a.space.ClearStart(start)
	start.g = 0
	a.push(0, start)

	var approach uint32
	for res.Iterations < a.opts.MaxIterations && a.open.len() > 0 {
		if err := a.interrupted(ctx, deadline); err != nil {
			log.Warn("search interrupted", slog.Any("reason", err), slog.Uint64("iterations", uint64(res.Iterations)))
			if errors.Is(err, ErrCanceled) {
				return a.fail(res, err)
			}

			return a.conclude(res, tolerance, err)
		}

		// 1) lowest f, visited duplicates are stale
		cur := a.next()
		if cur.WasVisited() {
			continue
		}

		// 2) visit
		cur.setVisited()
		res.Iterations++

		// 3) goal or approach patience
		if cur == goal {
			return a.succeed(res, cur, StatusSucceeded, nil)
		}
		if a.bestH < tolerance {
			approach++
			if approach >= a.opts.MaxOnApproachIterations {
				log.Info("settling for closest node", slog.Float64("heuristic", a.bestH))
				best, _ := a.graph.Find(a.bestIdx)

				return a.succeed(res, best, StatusApproximate, ErrApproachBudgetExhausted)
			}
		}

		// 4) expand and relax
		a.scratch = a.space.Neighbors(cur, a.get, a.opts.AllowUnknown, a.scratch[:0])
		for _, nb := range a.scratch {
			g := cur.g + a.space.TraversalCost(cur, nb)
			if g < nb.g {
				nb.g = g
				nb.parent = cur.slot
				a.push(g+a.heuristic(nb), nb)
			}
		}
	}

	reason := ErrNoPathFound
	if res.Iterations >= a.opts.MaxIterations {
		reason = ErrIterationBudgetExhausted
	}
	log.Debug("search ended without reaching goal",
		slog.Any("reason", reason), slog.Uint64("iterations", uint64(res.Iterations)))

	return a.conclude(res, tolerance, reason)
}

// validate checks the inputs of CreatePath.
func (a *Algorithm[C]) validate(tolerance float64) error {
	if a.space == nil {
		return ErrNoMap
	}
	if !a.hasStart || !a.hasGoal {
		return ErrMissingStartOrGoal
	}
	if tolerance < approachEpsilon {
		goal := a.graph.Add(a.goalIdx)
		if !a.space.IsValid(goal, a.opts.AllowUnknown) {
			return fmt.Errorf("%w: %v", ErrGoalInCollision, a.goalCoords)
		}
	}

	return nil
}

// interrupted reports ErrCanceled or ErrTimeBudgetExhausted when the search must stop.
func (a *Algorithm[C]) interrupted(ctx context.Context, deadline time.Time) error {
	select {
	case <-ctx.Done():
		return ErrCanceled
	default:
	}
	if !deadline.IsZero() && !a.opts.Clock().Before(deadline) {
		return ErrTimeBudgetExhausted
	}

	return nil
}

func (a *Algorithm[C]) push(priority float64, n *Node) {
	var b NodeBasic[C]
	b.populate(n, a.space.Coords(n.index))
	a.open.push(priority, b)
	n.queued = true
}

// next pops the best descriptor, resolves its node and runs the per-pop hook.
func (a *Algorithm[C]) next() *Node {
	b := a.open.pop()
	b.node = a.graph.at(b.slot)
	a.space.ProcessSearchNode(&b)

	return b.node
}

// heuristic returns h(n) and tracks the closest node to the goal.
func (a *Algorithm[C]) heuristic(n *Node) float64 {
	h := a.space.Heuristic(a.space.Coords(n.index), a.goalCoords)
	if h < a.bestH {
		a.bestH, a.bestIdx = h, n.index
	}

	return h
}

// conclude ends a search that did not pop the goal: the closest node wins if it is
// within tolerance.
func (a *Algorithm[C]) conclude(res *Result[C], tolerance float64, reason error) (*Result[C], error) {
	if a.bestH < tolerance {
		if best, ok := a.graph.Find(a.bestIdx); ok {
			return a.succeed(res, best, StatusApproximate, reason)
		}
	}

	return a.fail(res, reason)
}

func (a *Algorithm[C]) succeed(res *Result[C], end *Node, status Status, reason error) (*Result[C], error) {
	path, err := a.backtrace(end)
	if err != nil {
		return a.fail(res, err)
	}
	slices.Reverse(path)
	res.Path = path
	res.Cost = end.g
	res.Status = status
	res.Reason = reason
	a.logger.Debug("path computed",
		slog.String("plan_id", res.ID.String()),
		slog.String("status", status.String()),
		slog.Int("length", len(path)),
		slog.Uint64("iterations", uint64(res.Iterations)))

	return res, nil
}

// backtrace is Backtrace that accepts the parentless start as a one-cell path.
func (a *Algorithm[C]) backtrace(n *Node) ([]C, error) {
	if n.index == a.startIdx && !n.HasParent() {
		return []C{a.space.Coords(n.index)}, nil
	}

	return Backtrace(a.graph, n, a.space.Coords)
}

func (a *Algorithm[C]) fail(res *Result[C], err error) (*Result[C], error) {
	res.Status = StatusFailed
	res.Reason = err
	res.Path = nil

	return res, err
}
