// Package physics implements the force simulation that drives component
// placement.
//
// The engine owns flat, index-addressed arenas of nodes and connections.
// Connections are resolved to node indices once at insertion, so the hot
// loop never touches IDs or maps. An engine instance is exclusively owned
// by its caller for the duration of a layout computation; independent
// engines share no state and may run concurrently, one per goroutine.
//
// # Simulation Step
//
// Each step applies, in order:
//
//  1. Pairwise repulsion between node centers, magnitude k_r/d², with the
//     distance floored at a small epsilon. Coincident centers are pushed
//     apart along a pseudo-random unit direction drawn from the engine's
//     seeded generator - the only source of randomness in the engine.
//  2. Spring attraction per connection, magnitude
//     k_a · (length − ideal) · strength, scaled by the signal class.
//  3. Velocity integration with damping, position integration, and a
//     clamp into canvas bounds.
//  4. Axis-aligned collision resolution: overlapping pairs separate along
//     the center-to-center axis, each moving by the other node's mass
//     share. Heavier nodes move less. Fixed nodes never move.
//
// [Engine.Simulate] repeats steps until the maximum per-step displacement
// drops below a threshold or the step budget runs out. Non-convergence is
// a normal, reportable outcome, not an error.
//
// # Determinism
//
// Given the same inputs and seed, two runs produce bit-identical position
// sequences. The generator is injected via [Config.Seed]; the engine never
// reads ambient randomness.
package physics
