/*
Package ports defines the driven ports (interfaces) for the caesartm machine.

These interfaces decouple the runner and the adapters from concrete storage backends.

# Key Interfaces

  - RunStore: Responsible for persisting and loading completed runs and their traces.
*/
package ports
