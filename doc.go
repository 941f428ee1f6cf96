// Package pycfr computes the expected value of a strategy profile in an
// extensive-form game, and reads and writes per-player strategies.
//
// The game tree itself is described by package gametree.
package pycfr
