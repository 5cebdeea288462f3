// Package manager is the prediction facade. It drives one request through
// the pipeline: model cache, runner registry, runner, result normalizer.
// It is structured into small files by concern:
//
//   - manager.go: core Manager type, Ready, Preload, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: lifecycle state (State) reported by Status.
//   - predict.go: Predict/PredictImage/Generate, stage-tagged error wrapping.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - status_report.go: Status for /status.
//   - sanity.go: SanityCheck for startup and `mlserve check`.
//
// Every failure returned by Predict or Generate is an
// *inference.PredictionError recording the failing stage. A request never
// yields a partial result.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Internal types are subject to change.
package manager
