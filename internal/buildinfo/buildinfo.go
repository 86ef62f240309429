// Package buildinfo carries build-time version metadata.
package buildinfo

// Version is overridden at build time via -ldflags.
var Version = "dev"
