// Package tasks runs long-running hymnal jobs with real-time progress reporting.
//
// # Prefetch
//
// [Prefetcher.Run] walks a range of hymn numbers of one type through a [HymnFetcher] (the hymns repository), so every hymn it resolves ends up in the local store for offline use.
// Numbers are dispatched to a small worker pool and paced with a [rate.Limiter].
// A number that resolves to nothing is counted as missing rather than failing the run.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct carries phase, step counters and a message.
// Updates are sent with select and default, so a slow or absent reader never blocks the job.
package tasks
