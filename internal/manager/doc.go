// Package manager coordinates model pipelines and backend dispatch. It is
// structured into small files by concern:
//
//   - manager.go: core Manager type, accessors, Ready and Close.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - cache.go: PipelineCache, at most one construction per model id.
//   - overrides.go: PromptOverrides, runtime system prompt overrides.
//   - dispatch.go: Dispatcher and Invocable, on-device vs remote-chat routing.
//   - errors.go: error types and helpers (IsModelLoadError, IsConfigNotFound).
//   - events.go, eventpub_memory.go: lifecycle event seam and an in-memory sink.
//   - metrics.go: Prometheus collectors for loads, cache hits and remote calls.
//   - status_report.go: Status reporting for /status.
//
// On-device pipelines come from an ondevice.Runtime; remote-chat calls go
// through a RemoteChat (remote.Clients in production). Both are injected
// through ManagerConfig so tests can substitute fakes.
package manager
