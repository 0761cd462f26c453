// Package config loads the optional shim configuration that tells the
// installer and launcher which binary they manage.
//
// # Overview
//
// A package may ship a gewe-shim.lua file next to its manifest. The file is
// evaluated in a sandboxed gopher-lua VM with a read-only platform table
// injected, so a single file can describe per-platform differences:
//
//	shim = {
//	  binary = "gewe-notice-mcp",
//	  build = {
//	    tool = "cargo",
//	    args = { "build", "--release" },
//	    output_dir = platform.when(platform.is_windows, "target/x86_64-pc-windows-msvc/release")
//	      or "target/release",
//	  },
//	}
//
// Every field is optional; Default supplies the values the published
// package uses. When no file exists Load returns Default unchanged.
//
// # Sandboxing
//
// The VM has the os, io, debug and module-loading functions removed. A
// config can compute values but cannot touch the host.
//
// # Logging
//
// The package also defines the Logger interface shared by the installer and
// launcher, with a zap-backed implementation that only ever writes to the
// writer it is given (stderr in the commands).
package config
