/*
Package index implements the exact-match key-value stores that back the
basic retrieval algorithms in pkg/algo: KeyValueStore and KeyValueExStore.

# Storage

Both stores keep a go-patricia radix trie under the hood, inherited from
the teacher's dictionary engine, but only ever call Insert and the exact
Get — never VisitSubtree. A normalized query is looked up whole; there is
no prefix scanning and no partial match. This mirrors the original
implementation's use of a plain unordered_map<string, vector<...>> for its
key-value algorithms: the trie here is an implementation detail, not a
behavior.

	store := index.NewKeyValueStore()
	store.Insert("four seasons maui", items)
	items, ok := store.Get("four seasons maui")

# Loading

Load reads a msgpack-encoded map[string][]CompletionIndexItem (or the Ex
variant for CompletionIndexItemEx) from a single file and populates the
store in one pass at process init. There is no lazy, chunked loading here:
falcons and indexes are sized to fit in memory for the process lifetime,
per the manager's "created once, pinned forever" lifecycle.

# Hot cache

HotCache is an optional LRU layer in front of a store for callers that see
a skewed query distribution; it never changes lookup semantics, only
shortcuts a repeat exact-match lookup that's already resident.
*/
package index
