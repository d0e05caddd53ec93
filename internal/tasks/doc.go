// Package tasks reorders playlist items with real-time progress reporting.
//
// # Shuffle
//
// [ShuffleEngine.ShuffleAndPersist] applies a uniform Fisher-Yates shuffle to a playlist snapshot, assigns
// each item its new index as position, and then sends one update per item in that order:
//
//	items → shuffle → positions 0..N-1 → update item 0 → update item 1 → ... → report
//
// Updates are sequential and paced by a token bucket. A failed update is recorded in the [ShuffleReport] and
// the loop moves on; it is never retried and never stops the run. Only context cancellation ends the loop
// early. Items whose update failed keep their old position on the server, so the final order may differ
// from [ShuffleReport.Order].
//
// # Progress Reporting
//
// Progress goes through a [ProgressUpdate] channel. Sends use select with default so a slow or absent
// reader never blocks the run.
package tasks
