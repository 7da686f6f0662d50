// Package toolchain runs the host C compiler and the binaries it produces.
//
// Only two things are observable: the compiler's exit status and the probe
// binary's standard output. Exit statuses are classified rather than turned
// into errors:
//
//	res, err := toolchain.Default().Compile(ctx, "probe.c", "probe_bin")
//	switch {
//	case err != nil:                                // compiler could not be started
//	case res.Status == toolchain.StatusRejected:    // program refused, struct unavailable
//	case res.Status == toolchain.StatusAbnormal:    // other nonzero exit
//	}
//
// The compiler and flags are fixed per Toolchain; FromEnv honours $CC.
package toolchain
