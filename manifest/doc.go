// Package manifest probes a batch of structures described in YAML and
// produces one platform config file.
//
//	structs:
//	  - config: addrinfo
//	    name: struct addrinfo
//	    includes: [sys/socket.h, netdb.h]
//	    fields:
//	      - {name: ai_flags, type: int}
//	      - {name: ai_addrlen, type: socklen_t}
//	  - config: timeval
//	    source: |
//	      name "struct timeval"
//	      include "sys/time.h"
//	      field :tv_sec, :time_t
//
// Structures that do not compile on the host are skipped and reported in
// Result.Missing; they are an expected outcome, not an error.
package manifest
