package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent work. Using a centralized singleflight.Group ensures that only
// one job runs for a given key while other callers wait for the result.

import "golang.org/x/sync/singleflight"

// ResolveGroup deduplicates round-resolution triggers keyed by session ID.
// A resolution can be triggered both by the final action submission and by
// the timeout scanner; only one may run per session at a time.
var ResolveGroup singleflight.Group
