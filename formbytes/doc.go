// Package formbytes provides the small byte-level utilities shared by the
// header parser and the re-emit pipeline: owned-slice
// concatenation, equality, and UTF-8-safe text conversion for header values.
package formbytes
