// Package footprint models a robot outline as a polygon and prices it against a costmap.
//
// A Footprint is an ordered ring of orb.Point vertices in the robot's local frame
// (meters, origin at the rotation center). Orientation is implicit in vertex order
// and two footprints are equal only if every vertex matches in sequence.
//
// Checker.FootprintCost rasterizes each polygon edge (consecutive vertices, the last one
// wrapping to the first) onto the grid and returns the worst cell cost it touched:
//
//   - a LethalObstacle cell short-circuits the walk and returns lethal;
//   - a vertex outside the grid is treated as lethal;
//   - NoInformation cells raise the result to 255 but are also reported separately,
//     so callers can decide whether unknown space counts as a collision.
//
// Only the outline is rasterized, not the interior: a footprint whose edges fit in free
// space around an obstacle is not in collision. Planners inflate obstacles beforehand.
//
// Complexity: O(Σ edge length in cells) per FootprintCost call.
package footprint
