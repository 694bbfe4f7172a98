// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock exposes per-method function fields so a
// test overrides exactly the behavior it exercises; unset methods return
// zero values.
package mocks
