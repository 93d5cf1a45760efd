// Package directory resolves people by fuzzy name matching and enumerates
// the assets assigned to them.
//
// Name resolution fetches candidates through the inventory API's substring
// search and rescores them locally with a layered rule set, from exact
// equality down to a character-overlap fallback for typo'd queries. The
// caller receives the best candidate plus up to three strong alternates.
//
// Asset enumeration works around the API's unreliable assignee filters by
// running a fixed cascade of query strategies, verifying assignment
// locally on every row and deduplicating by asset tag. Strategies are
// failure-tolerant and individually bounded.
package directory
