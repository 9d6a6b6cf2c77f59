package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Record sources, caches and stores return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: the entity does not exist upstream or in the store
//   - ErrUnavailable: the upstream source or store is temporarily unreachable
//   - ErrCircuitOpen: calls are short-circuited after repeated upstream failures
//
// For validation failures (bad shape, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrCircuitOpen = errors.New("circuit open")
)
