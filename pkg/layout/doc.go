// Package layout computes component placements using one of three
// strategies sharing a single contract: nodes, connections, and a canvas
// in; final positions by node ID out.
//
//   - [ForceDirected] delegates to the physics engine with a large step
//     budget and a moderate convergence threshold.
//   - [Hierarchical] levels the graph by breadth-first depth from its
//     in-degree-zero roots and spaces each level evenly. A graph with no
//     roots (every node has an incoming edge) silently falls back to
//     force-directed placement - a preserved quirk; see DESIGN.md.
//   - [Circular] places nodes evenly around a circle sized to the canvas.
//
// Strategies are a closed set, not string-keyed dispatch; use
// [ParseStrategy] at the edges that accept user input.
package layout
