// Package inference holds the backend-agnostic core of the prediction
// pipeline. It is structured into small files by concern:
//
//   - types.go: loader identities, task kinds, inputs, tensors, runner
//     contracts and the raw result union.
//   - errors.go: error taxonomy (ModelLoadError, UnsupportedModelError,
//     InferenceError, PredictionError) and Is* helpers.
//   - cache.go: ModelCache, the single-slot process-wide model cache.
//   - normalize.go: conversion of raw results into types.Record values,
//     including bbox descaling.
//
// Runners live in internal/runner, the dispatch table in internal/registry
// and the facade that ties them together in internal/manager.
package inference
