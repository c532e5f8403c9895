/*
Package ports defines the driven ports (interfaces) of the Mealy engine.

These interfaces decouple the transducer core from external implementations, allowing
the engine to work with various table sources, trace sinks and storage backends.

# Key Interfaces

  - Tracer: Receives one record per transition, on a channel separate from program output.
  - TableLoader: Resolves tables by name (e.g., builtin, memory, directory of files).
  - RunStore: Persists and retrieves run records.
*/
package ports
