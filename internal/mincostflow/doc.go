// Package mincostflow implements minimum-cost maximum-flow on top of
// internal/graph using the successive shortest path (SSP) method with
// Johnson potentials.
//
// # Algorithm
//
//  1. Seed node potentials with a single Bellman-Ford pass from the source
//     (handles the negative-cost edges that affinity-derived costs produce).
//  2. Repeatedly find a shortest augmenting path using Dijkstra over the
//     reduced costs c'(u,v) = c(u,v) + pi(u) - pi(v), which stay
//     non-negative once potentials are seeded.
//  3. Push flow equal to the path's bottleneck residual capacity; update
//     potentials by the path distances.
//  4. Periodically reseed potentials from a fresh Bellman-Ford pass for
//     numerical stability on long runs.
//
// # Lower bounds
//
// Solve has no notion of per-edge lower bounds: every edge is a plain
// [0, Capacity] arc, and each call starts from zero flow on every edge.
// Reviewer minimum loads are handled by internal/solver, which calls Solve
// once per phase over the same network.
//
// Grounded on Hola-to-network_logistics_problem's solver-svc algorithms
// package (Bellman-Ford / Dijkstra-with-potentials / successive shortest
// path structure) adapted from int64 node IDs to internal/graph's
// int-indexed vertices, and on lvlath/flow's context-cancellation and
// FlowOptions conventions.
package mincostflow
