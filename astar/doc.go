// Package astar plans collision-free paths across a 2-D costmap with an A* search
// built on a lazily populated graph.
//
// Overview:
//
//   - Algorithm drives the search: pop the open-set entry with the lowest f = g + h,
//     skip it if already visited, stop on the goal, otherwise expand its neighbors,
//     relax any strictly cheaper g and push them back.
//   - Graph is a sparse index→node arena filled on demand. Nodes live in fixed-size
//     pages, so *Node stays valid while the graph grows; parents are arena slots.
//   - NodeSpace is the capability set a node kind provides (coordinates, heuristic,
//     traversal cost, neighbor enumeration, validity). Grid2D is the 8-connected
//     grid implementation.
//
// Termination (in the order they are checked each iteration):
//
//  1. maxPlanningTime deadline or context cancellation.
//  2. Goal popped → Succeeded.
//  3. Best heuristic seen is within tolerance for maxOnApproachIterations pops → Approximate.
//  4. maxIterations visits or empty open set → Approximate if the best node is within
//     tolerance, Failed otherwise.
//
// Determinism:
//
//   - The open set breaks f ties FIFO by push order.
//   - Relaxation uses strict <, so the first parent found for equal-cost paths wins.
//   - Grid2D enumerates diagonals before cardinals.
//
// Together these make paths reproducible across runs on the same map.
//
// Repeated searches:
//
//   - CreatePath starts a new search generation. Nodes kept in the graph from earlier
//     calls are lazily reset (g, parent, visited, queued) the first time they are
//     touched, so repeated calls on an unchanged map return the same path.
//   - SetCollisionChecker drops the whole graph.
//
// Side effect: CreatePath writes costmap.FreeSpace into the start cell so a stale
// obstacle under the robot does not block planning.
//
// Concurrency: an Algorithm is single-goroutine. Use one instance per concurrent request;
// they may share a costmap as long as nobody writes to it while searches run.
//
// Errors (sentinel, test with errors.Is):
//
//   - ErrConfiguration:            invalid heading quantization or dim3 (warned and clamped).
//   - ErrNoMap:                    no collision checker / costmap bound.
//   - ErrMissingStartOrGoal:       start or goal not set.
//   - ErrOutOfBounds:              start or goal outside the map.
//   - ErrGoalInCollision:          goal is not traversable and tolerance is zero.
//   - ErrIterationBudgetExhausted: maxIterations reached.
//   - ErrTimeBudgetExhausted:      maxPlanningTime elapsed.
//   - ErrApproachBudgetExhausted:  gave up near the goal after maxOnApproachIterations.
//   - ErrCanceled:                 context canceled.
//   - ErrNoPathFound:              open set exhausted.
//   - ErrNoParent:                 backtrace from a node that was never relaxed.
//
// Complexity: O(E log E) time with lazy decrease-key, E ≤ 8·V pushes; O(V + E) memory.
package astar
