// Package stackdef holds build metadata for the stackdef module. The
// normalizer and validator live in package stack.
package stackdef

// Version is the stackdef release version.
const Version = "0.1.0"
