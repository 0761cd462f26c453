// Package binary places the platform binary at the fixed path the launcher
// expects, and defines that path.
//
// # Layout
//
// The binary lives at <package-root>/bin/<name>, with ".exe" appended on
// Windows. The installer is the only writer; the launcher only reads it.
//
// # Install chain
//
// Install tries each stage only when the previous one is inapplicable or
// fails:
//
//  1. Resolve the platform key. An unsupported host aborts immediately.
//  2. Look up the optional "<prefix>-<key>" package the package manager may
//     have installed next to this one. If it carries the binary, optionally
//     verify its detached OpenPGP signature, copy it into place and mark it
//     executable.
//  3. Probe the native toolchain ("cargo --version"). If present, build the
//     release binary in the package root with the tool's output passed
//     through, then copy the artifact into place.
//  4. Fail with guidance naming both remediations.
//
// Every run walks the whole chain; an existing binary is replaced, never
// trusted.
//
// # Usage
//
//	inst, err := binary.NewInstaller(binary.Options{
//	    Root:   root,
//	    Config: cfg,
//	    Status: os.Stdout,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := inst.Install(ctx)
package binary
