// Package costmap stores a dense 2-D occupancy grid of per-cell traversal costs.
//
// What:
//
//   - Costmap wraps a flat, row-major []uint8 of Width×Height cells.
//   - Every cell holds a cost in [0,255]; five values are reserved sentinels
//     (FreeSpace, MaxNonObstacle, InscribedInflatedObstacle, LethalObstacle, NoInformation).
//   - Settings carry the grid size plus resolution and origin for world↔map conversion.
//
// Indexing:
//
//	index(x, y) = y*Width + x,   (x, y) = (index % Width, index / Width)
//
// Caller contract:
//
//   - GetCost / SetCost do NOT check bounds. The caller guarantees 0 ≤ x < Width and
//     0 ≤ y < Height; anything else is undefined behavior, not an error path.
//     Build with -tags costmapdebug to turn violations into panics.
//
// Concurrency:
//
//   - One mutex guards bulk operations only: InitMaps, ResetMaps, DeleteMaps, Clone, CopyFrom.
//   - Per-cell GetCost / SetCost take no lock. A planner reading the grid relies on nobody
//     mutating it while a search runs, and on callers serializing resize/reset/copy against
//     in-flight searches.
//
// Complexity:
//
//   - GetCost, SetCost, Index, Coords: O(1).
//   - InitMaps, ResetMaps, Clone, CopyFrom: O(W×H).
//
// Errors (loaders only):
//
//   - ErrEmptyGrid:      input grid has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrUnknownGlyph:   ASCII map contains an unsupported character.
package costmap
