// Package lifecycle owns the loaded model and the locking discipline around
// it. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, generation slot helpers.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: state machine, requests, Loader/Handle contracts.
//   - errors.go: error types and helpers (IsModelNotFound, IsDependencyUnavailable).
//   - load.go: background load/swap sequence.
//   - unload.go: handle release under the generation slot.
//   - generate.go: blocking generation.
//   - stream.go: producer/consumer streaming with the abandonment timeout.
//   - status.go: non-blocking StatusSnapshot with host memory telemetry.
//   - persist.go: durable last-loaded-model record.
//   - prompt.go: chat template rendering.
//   - analyze.go: canned analyst conversations for the dashboard.
//   - events.go: lifecycle event publishing.
//
// Two locks of different granularity: mu guards the small state fields and
// the handle pointer; the generation slot (a one-slot channel) serializes
// everything that uses the live handle: Generate, StreamGenerate, Unload,
// and the swap phases inside Load. mu is never held across I/O or
// inference, so Status never blocks behind a load or generation.
//
// External packages should treat this package as the orchestration layer
// and use public methods only.
package lifecycle
