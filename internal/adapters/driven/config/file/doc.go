// Package file provides the TOML configuration store.
//
// Keys use dot notation ("loader.burst"). On disk they are written as
// nested tables, so the file reads naturally:
//
//	[loader]
//	burst = 10
//	timeout = "30s"
package file
