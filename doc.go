// Package navgrid plans collision-free paths for mobile robots on 2-D occupancy grids.
//
// What is navgrid?
//
//	A small planning core built from four layers:
//		• costmap   – W×H grid of 8-bit traversal costs with world/map conversion
//		• footprint – robot outline, rotation, rasterized cost of a placed outline
//		• collision – footprint pre-rotated into N heading bins + per-cell checks
//		• astar     – A* over a lazily populated graph with budgets and tolerance
//
//	Around it:
//		• config      – YAML scenarios (map, footprint, planner budgets, start/goal)
//		• cmd/navgrid – plan one scenario and print the path over the map
//
// Cost scale:
//
//	0         FreeSpace
//	1..252    traversable, more expensive with higher cost
//	253       InscribedInflatedObstacle (default collision threshold)
//	254       LethalObstacle
//	255       NoInformation (unknown)
//
// Quick example:
//
//	cm, _ := costmap.ParseASCII(strings.NewReader("..#..\n.....\n"), costmap.DefaultSettings())
//	a := astar.New()
//	a.SetCollisionChecker(collision.New(cm, 1))
//	_ = a.SetStart(0, 0, 0)
//	_ = a.SetGoal(4, 0, 0)
//	res, err := a.CreatePath(ctx, 0)
//	// res.Path starts at {0 0}, passes {2 1} and ends at {4 0}
//
// Planning is synchronous. One planner per concurrent request; planners may share a
// costmap as long as nothing resizes or writes it during a search.
package navgrid
