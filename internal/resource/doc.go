// Package resource reconciles a local store with a remote service for a single key.
//
// A [Coordinator] runs one resolution per call to [Coordinator.Resolve]:
//
//  1. Optionally emit [StatusLoading]
//  2. Load the local record and convert it to the result type
//  3. Ask the [Source] whether the remote should be consulted
//  4. Fetch, persist (best effort) and convert the remote record
//  5. Emit exactly one terminal [Resource] and close the channel
//
// The channel is buffered, so a caller that stops reading after the first value never blocks the worker.
//
// # Error Policy
//
// Failures are wrapped with the shared sentinels so callers can classify them with errors.Is:
//   - [shared.ErrStorageUnavailable] : the local read failed
//   - [shared.ErrConversion] : a record could not be converted
//   - [shared.ErrNetwork] : the remote fetch failed and no local value was available
//
// A failed save is logged and otherwise ignored.
// A failed fetch with a local value present yields that value.
package resource
