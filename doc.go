// Package planc compiles a stream graph of user operators into a job graph
// of execution vertices.
//
// Compilation fuses legally chainable operators into single job vertices,
// assigns each vertex a stable content-derived identity, wires the
// remaining cross-vertex edges, resolves slot-sharing and co-location
// placement constraints, and assembles the checkpoint coordination
// descriptor. The entry point is Compile.
package planc
