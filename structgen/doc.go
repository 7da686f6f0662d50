// Package structgen discovers native structure layouts by asking the host
// C compiler.
//
// A Description names a structure, the headers that declare it, and the
// fields of interest. The Prober generates a small C program that prints
// sizeof and offsetof for each field, compiles it with the local toolchain,
// runs it, and writes the measured offsets and sizes back into the
// Description:
//
//	d, err := structgen.FromSource(`
//		name "struct timeval"
//		include "sys/time.h"
//		field :tv_sec, :time_t
//		field :tv_usec, :suseconds_t
//	`)
//	if err != nil {
//		return err
//	}
//
//	found, err := structgen.NewProber().Probe(ctx, d)
//	if err != nil {
//		return err
//	}
//	if !found {
//		return nil // not available on this platform
//	}
//
//	layout, _ := structgen.RenderLayout(d)
//	config, _ := structgen.RenderConfig(d, "timeval")
//
// # Overrides
//
// A size set on the Description (or a field) before probing always wins
// over the measured value; the offset is always measured.
//
// # Files
//
// Each probe writes a temporary C source file and an executable named
// struct_gen_bin_<pid> in the work directory. Both are removed before Probe
// returns, on every path.
package structgen
