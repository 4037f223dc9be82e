package index

import "github.com/room77/suggestd/pkg/suggest"

// Lookup is the minimal read surface a retrieval algorithm needs from an
// index, satisfied by both KeyValueStore and KeyValueExStore via the
// AsLookup adapters below (see pkg/algo).
type Lookup func(key string) ([]suggest.CompletionIndexItem, bool)

// AsLookup adapts a KeyValueStore to the plain Lookup signature.
func (s *KeyValueStore) AsLookup() Lookup { return s.Get }

// AsLookup adapts a KeyValueExStore to the plain Lookup signature, dropping
// items down to the common CompletionIndexItem shape; callers needing the
// index score should call Get directly instead.
func (s *KeyValueExStore) AsLookup() Lookup {
	return func(key string) ([]suggest.CompletionIndexItem, bool) {
		items, ok := s.Get(key)
		if !ok {
			return nil, false
		}
		plain := make([]suggest.CompletionIndexItem, len(items))
		for i, it := range items {
			plain[i] = it.CompletionIndexItem
		}
		return plain, true
	}
}
