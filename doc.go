// Package platformprobe measures the memory layout of C structures on the
// host platform by compiling and running small probe programs.
//
// # Architecture Overview
//
//	platformprobe/
//	├── structgen/       Struct descriptions, the prober and the renderers
//	├── toolchain/       C compiler invocation and exit classification
//	├── dsl/             Mini-language for describing structures
//	├── splice/          Rewrites @@@ regions of .in templates with layout text
//	├── manifest/        YAML batches of structures to platform config text
//	├── errors/          Structured errors shared by every package
//	└── cmd/structgen/   Command line tool and interactive browser
//
// # Quick Start
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
//		// not available on this platform
//	}
//
//	layout, _ := structgen.RenderLayout(d)
//	// layout :tv_sec, :time_t, 0,
//	//        :tv_usec, :suseconds_t, 8
//
// # Probing
//
// A probe generates a C program that prints sizeof for the structure and
// offsetof/sizeof for every declared field, compiles it with $CC (gcc by
// default) and parses its output. A compiler exit status of 1 means the
// structure or one of its fields does not exist; Probe then reports false
// without an error. Sizes set by the caller take precedence over measured
// ones; offsets are always measured.
//
// # Output Formats
//
// Layout text is consumed by FFI struct definitions:
//
//	layout :x, :int, 0,
//	       :y, :int, 4
//
// Config text is a flat key/value file:
//
//	rbx.platform.point.sizeof = 8
//	rbx.platform.point.x.offset = 0
//	rbx.platform.point.x.size = 4
//	rbx.platform.point.x.type = int
//
// # Logging
//
// Packages log through zap and are silent by default. Install a logger with
// the package SetLogger functions.
package platformprobe
