// Package pipeline runs a cleanup pass: create the simulation layout (in
// simulate modes), confirm the run settings, scan subjects and confirm the
// naming convention once, then apply each file's disposition.
//
// Run is the single top-level handler. Every abort (operator rejection,
// interrupt, I/O failure) returns through it, and it removes an empty
// simulation root before returning the error.
package pipeline
