package astar_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/navgrid/astar"
	"github.com/katalvlaran/navgrid/collision"
	"github.com/katalvlaran/navgrid/costmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// newMap returns a free w×h costmap.
func newMap(w, h uint32) *costmap.Costmap {
	s := costmap.DefaultSettings()
	s.Width, s.Height = w, h

	return costmap.New(s)
}

// planner binds a fresh planner to cm and sets start and goal.
func planner(t *testing.T, cm *costmap.Costmap, start, goal astar.Coordinates, opts ...astar.Option) *astar.Algorithm[astar.Coordinates] {
	t.Helper()
	a := astar.New(opts...)
	a.SetCollisionChecker(collision.New(cm, 1))
	require.NoError(t, a.SetStart(start.X, start.Y, 0))
	require.NoError(t, a.SetGoal(goal.X, goal.Y, 0))

	return a
}

func xy(x, y uint32) astar.Coordinates { return astar.Coordinates{X: x, Y: y} }

// ------------------------------------------------------------------------
// 1. Reference scenarios
// ------------------------------------------------------------------------

// TestCreatePath_EmptyGridDiagonal runs the pure diagonal across an empty 5×5 grid.
func TestCreatePath_EmptyGridDiagonal(t *testing.T) {
	a := planner(t, newMap(5, 5), xy(0, 0), xy(4, 4))

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, astar.StatusSucceeded, res.Status)
	assert.True(t, res.Found())
	assert.Nil(t, res.Reason)
	assert.Equal(t, []astar.Coordinates{xy(0, 0), xy(1, 1), xy(2, 2), xy(3, 3), xy(4, 4)}, res.Path)
	assert.InDelta(t, 4*math.Sqrt2, res.Cost, 1e-9)
	assert.LessOrEqual(t, res.Iterations, uint32(9))
	assert.NotEqual(t, uuid.Nil, res.ID)
}

// TestCreatePath_WallWithOpening forces the path through the single gap at (2,4).
func TestCreatePath_WallWithOpening(t *testing.T) {
	cm := newMap(5, 5)
	for y := uint32(0); y < 4; y++ {
		cm.SetCost(2, y, costmap.LethalObstacle)
	}
	a := planner(t, cm, xy(0, 0), xy(4, 4))

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, astar.StatusSucceeded, res.Status)
	assert.Contains(t, res.Path, xy(2, 4))
	assert.Equal(t, xy(0, 0), res.Path[0])
	assert.Equal(t, xy(4, 4), res.Path[len(res.Path)-1])
	for _, c := range res.Path {
		assert.NotEqual(t, costmap.LethalObstacle, cm.GetCost(c.X, c.Y), "path crosses wall at %v", c)
	}
}

// TestCreatePath_GoalInCollision fails before expanding anything.
func TestCreatePath_GoalInCollision(t *testing.T) {
	cm := newMap(5, 5)
	cm.SetCost(4, 4, costmap.LethalObstacle)
	a := planner(t, cm, xy(0, 0), xy(4, 4))

	res, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrGoalInCollision)
	require.NotNil(t, res)
	assert.Equal(t, astar.StatusFailed, res.Status)
	assert.ErrorIs(t, res.Reason, astar.ErrGoalInCollision)
	assert.Zero(t, res.Iterations)
	assert.Nil(t, res.Path)
	assert.False(t, res.Found())
}

// TestCreatePath_MaxIterationsOne stops after exactly one visit.
func TestCreatePath_MaxIterationsOne(t *testing.T) {
	a := planner(t, newMap(5, 5), xy(0, 0), xy(4, 4), astar.WithMaxIterations(1))

	res, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrIterationBudgetExhausted)
	assert.Equal(t, astar.StatusFailed, res.Status)
	assert.Equal(t, uint32(1), res.Iterations)

	// With slack, the closest relaxed node (1,1) at h = 3√2 is accepted.
	res, err = a.CreatePath(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, astar.StatusApproximate, res.Status)
	assert.ErrorIs(t, res.Reason, astar.ErrIterationBudgetExhausted)
	assert.Equal(t, uint32(1), res.Iterations)
	assert.Equal(t, []astar.Coordinates{xy(0, 0), xy(1, 1)}, res.Path)
	assert.InDelta(t, math.Sqrt2, res.Cost, 1e-12)
}

// TestCreatePath_Idempotent pins that repeated searches on an unchanged map agree.
func TestCreatePath_Idempotent(t *testing.T) {
	cm := newMap(8, 6)
	for y := uint32(1); y < 6; y++ {
		cm.SetCost(4, y, costmap.LethalObstacle)
	}
	cm.SetCost(2, 2, 200)
	a := planner(t, cm, xy(0, 5), xy(7, 5))

	first, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	nodes := a.Graph().Len()
	second, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Iterations, second.Iterations)
	assert.Equal(t, first.Cost, second.Cost)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, nodes, a.Graph().Len(), "graph keeps its nodes between searches")
}

// ------------------------------------------------------------------------
// 2. Validation
// ------------------------------------------------------------------------

func TestCreatePath_NoMap(t *testing.T) {
	a := astar.New()
	res, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrNoMap)
	assert.Equal(t, astar.StatusFailed, res.Status)

	assert.ErrorIs(t, a.SetStart(0, 0, 0), astar.ErrNoMap)
	assert.ErrorIs(t, a.SetGoal(0, 0, 0), astar.ErrNoMap)
}

func TestCreatePath_MissingStartOrGoal(t *testing.T) {
	a := astar.New()
	a.SetCollisionChecker(collision.New(newMap(3, 3), 1))
	_, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrMissingStartOrGoal)

	require.NoError(t, a.SetStart(0, 0, 0))
	_, err = a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrMissingStartOrGoal)
}

// TestSetCollisionChecker_ResetsEndpoints checks rebinding drops start, goal and graph.
func TestSetCollisionChecker_ResetsEndpoints(t *testing.T) {
	a := planner(t, newMap(3, 3), xy(0, 0), xy(2, 2))
	_, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	require.False(t, a.Graph().Empty())

	a.SetCollisionChecker(collision.New(newMap(3, 3), 1))
	assert.True(t, a.Graph().Empty())
	_, ok := a.Start()
	assert.False(t, ok)
	_, ok = a.Goal()
	assert.False(t, ok)
	_, err = a.CreatePath(context.Background(), 0)
	assert.ErrorIs(t, err, astar.ErrMissingStartOrGoal)
}

func TestSetStartGoal_OutOfBounds(t *testing.T) {
	a := astar.New()
	a.SetCollisionChecker(collision.New(newMap(5, 5), 1))
	assert.ErrorIs(t, a.SetStart(5, 0, 0), astar.ErrOutOfBounds)
	assert.ErrorIs(t, a.SetGoal(0, 5, 0), astar.ErrOutOfBounds)
	_, ok := a.Start()
	assert.False(t, ok)
}

// TestDim3_WarnAndClamp checks bad dim3 values are reported but not fatal.
func TestDim3_WarnAndClamp(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a := astar.New(astar.WithLogger(logger))

	err := a.Initialize(true, 100, 10, time.Second, 4)
	require.ErrorIs(t, err, astar.ErrConfiguration)
	assert.Equal(t, uint32(1), a.Options().Dim3Size)
	assert.Equal(t, uint32(100), a.Options().MaxIterations, "rest of the configuration applied")
	assert.Contains(t, buf.String(), "heading quantization not supported")

	a.SetCollisionChecker(collision.New(newMap(4, 4), 1))
	assert.ErrorIs(t, a.SetStart(0, 0, 3), astar.ErrConfiguration)
	assert.ErrorIs(t, a.SetGoal(3, 3, 1), astar.ErrConfiguration)
	start, ok := a.Start()
	require.True(t, ok)
	assert.Equal(t, xy(0, 0), start)
	goal, ok := a.Goal()
	require.True(t, ok)
	assert.Equal(t, xy(3, 3), goal)

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, res.Path, 4)
}

func TestNew_ClampsDim3Option(t *testing.T) {
	a := astar.New(astar.WithDim3Size(8))
	assert.Equal(t, uint32(1), a.Options().Dim3Size)
}

func TestWithTravelCostMultiplier_PanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { astar.New(astar.WithTravelCostMultiplier(-1)) })
}

// ------------------------------------------------------------------------
// 3. Budgets and cancellation
// ------------------------------------------------------------------------

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return func() time.Time {
		t := now
		now = now.Add(step)

		return t
	}
}

// TestCreatePath_TimeBudget stops when the clock passes the deadline.
func TestCreatePath_TimeBudget(t *testing.T) {
	a := planner(t, newMap(20, 20), xy(0, 0), xy(19, 19),
		astar.WithMaxPlanningTime(2*time.Second),
		astar.WithClock(stepClock(time.Second)),
	)

	res, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrTimeBudgetExhausted)
	assert.Equal(t, uint32(1), res.Iterations)
}

// TestCreatePath_NoDeadline checks a zero budget disables the deadline.
func TestCreatePath_NoDeadline(t *testing.T) {
	a := planner(t, newMap(20, 20), xy(0, 0), xy(19, 19),
		astar.WithMaxPlanningTime(0),
		astar.WithClock(stepClock(time.Hour)),
	)

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, res.Path, 20)
}

func TestCreatePath_Canceled(t *testing.T) {
	a := planner(t, newMap(5, 5), xy(0, 0), xy(4, 4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := a.CreatePath(ctx, 10)
	require.ErrorIs(t, err, astar.ErrCanceled)
	assert.Equal(t, astar.StatusFailed, res.Status)
	assert.Zero(t, res.Iterations)
}

// walledGoal returns a 5×5 map where (4,4) is free but boxed in by lethal cells.
func walledGoal() *costmap.Costmap {
	cm := newMap(5, 5)
	cm.SetCost(3, 3, costmap.LethalObstacle)
	cm.SetCost(3, 4, costmap.LethalObstacle)
	cm.SetCost(4, 3, costmap.LethalObstacle)

	return cm
}

func TestCreatePath_NoPathFound(t *testing.T) {
	a := planner(t, walledGoal(), xy(0, 0), xy(4, 4))

	res, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrNoPathFound)
	assert.Equal(t, uint32(21), res.Iterations, "every reachable cell visited")
}

// TestCreatePath_ApproximateOnExhaustion accepts the closest cell once the frontier empties.
func TestCreatePath_ApproximateOnExhaustion(t *testing.T) {
	a := planner(t, walledGoal(), xy(0, 0), xy(4, 4))

	res, err := a.CreatePath(context.Background(), 2.5)
	require.NoError(t, err)
	require.Equal(t, astar.StatusApproximate, res.Status)
	assert.ErrorIs(t, res.Reason, astar.ErrNoPathFound)
	end := res.Path[len(res.Path)-1]
	assert.Contains(t, []astar.Coordinates{xy(2, 4), xy(4, 2)}, end)
	assert.Equal(t, xy(0, 0), res.Path[0])
}

// TestCreatePath_ApproachBudget gives up as soon as a near-goal node exists.
func TestCreatePath_ApproachBudget(t *testing.T) {
	a := planner(t, walledGoal(), xy(0, 0), xy(4, 4), astar.WithMaxOnApproachIterations(1))

	res, err := a.CreatePath(context.Background(), 2.5)
	require.NoError(t, err)
	require.Equal(t, astar.StatusApproximate, res.Status)
	assert.ErrorIs(t, res.Reason, astar.ErrApproachBudgetExhausted)
	end := res.Path[len(res.Path)-1]
	dx, dy := 4-float64(end.X), 4-float64(end.Y)
	assert.Less(t, math.Hypot(dx, dy), 2.5)
	assert.Less(t, res.Iterations, uint32(21))
}

// ------------------------------------------------------------------------
// 4. Map semantics
// ------------------------------------------------------------------------

func TestCreatePath_StartEqualsGoal(t *testing.T) {
	a := planner(t, newMap(3, 3), xy(1, 1), xy(1, 1))

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []astar.Coordinates{xy(1, 1)}, res.Path)
	assert.Equal(t, uint32(1), res.Iterations)
	assert.Zero(t, res.Cost)
}

// TestCreatePath_ClearsStart checks an obstacle under the start is overwritten.
func TestCreatePath_ClearsStart(t *testing.T) {
	cm := newMap(4, 4)
	cm.SetCost(0, 0, costmap.LethalObstacle)
	a := planner(t, cm, xy(0, 0), xy(3, 0))

	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, costmap.FreeSpace, cm.GetCost(0, 0))
	assert.Len(t, res.Path, 4)
}

// TestCreatePath_Unknown checks an unknown column blocks only when unknown is disallowed.
func TestCreatePath_Unknown(t *testing.T) {
	cm := newMap(5, 3)
	for y := uint32(0); y < 3; y++ {
		cm.SetCost(2, y, costmap.NoInformation)
	}

	a := planner(t, cm, xy(0, 1), xy(4, 1), astar.WithAllowUnknown(false))
	_, err := a.CreatePath(context.Background(), 0)
	require.ErrorIs(t, err, astar.ErrNoPathFound)

	a = planner(t, cm, xy(0, 1), xy(4, 1), astar.WithAllowUnknown(true))
	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []astar.Coordinates{xy(0, 1), xy(1, 1), xy(2, 1), xy(3, 1), xy(4, 1)}, res.Path)
}

// TestCreatePath_PrefersCheapCells checks the travel-cost multiplier bends the path.
func TestCreatePath_PrefersCheapCells(t *testing.T) {
	cm := newMap(5, 3)
	for x := uint32(1); x < 4; x++ {
		cm.SetCost(x, 1, costmap.MaxNonObstacle)
	}

	a := planner(t, cm, xy(0, 1), xy(4, 1))
	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	for _, c := range res.Path[1 : len(res.Path)-1] {
		assert.NotEqual(t, uint32(1), c.Y, "expensive row avoided, got %v", res.Path)
	}

	a = planner(t, cm, xy(0, 1), xy(4, 1), astar.WithTravelCostMultiplier(0))
	res, err = a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, res.Path, 5)
	assert.InDelta(t, 4.0, res.Cost, 1e-12)
}

// TestCreatePath_WithTracerProvider checks an explicit provider does not disturb planning.
func TestCreatePath_WithTracerProvider(t *testing.T) {
	a := planner(t, newMap(3, 3), xy(0, 0), xy(2, 2),
		astar.WithTracerProvider(tracenoop.NewTracerProvider()))
	res, err := a.CreatePath(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, res.Found())
}

// TestCreatePath_Logs checks failures reach the injected logger.
func TestCreatePath_Logs(t *testing.T) {
	var buf bytes.Buffer
	cm := newMap(3, 3)
	cm.SetCost(2, 2, costmap.LethalObstacle)
	a := planner(t, cm, xy(0, 0), xy(2, 2),
		astar.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := a.CreatePath(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "goal is in collision")
	assert.Contains(t, buf.String(), "component=astar")
}
