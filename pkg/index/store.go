// Package index implements the on-disk, exact-match key->value stores that
// back the key-value retrieval algorithms in pkg/algo. Unlike a prefix
// completer, lookups here are exact: a normalized query either has a stored
// slice of index items or it doesn't. Storage is still a go-patricia radix
// trie, kept from the teacher's dictionary engine and repurposed — a trie
// is just a space-efficient exact-match map when only Get/Insert are used
// and subtree scans never are.
package index

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/room77/suggestd/pkg/store"
	"github.com/room77/suggestd/pkg/suggest"
)

// KeyValueStore is the index backing a basic key-value retrieval algorithm:
// normalized query -> []CompletionIndexItem. Grounded on the original's
// SuggestKeyValueMap (unordered_map<string, vector<CompletionIndexItem>>).
type KeyValueStore struct {
	trie *patricia.Trie
	size int
}

// NewKeyValueStore returns an empty store, ready for Load or Insert.
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{trie: patricia.NewTrie()}
}

// Insert associates key with items, replacing any existing association.
func (s *KeyValueStore) Insert(key string, items []suggest.CompletionIndexItem) {
	if s.trie.Insert(patricia.Prefix(key), items) {
		s.size++
		return
	}
	s.trie.Set(patricia.Prefix(key), items)
}

// Get returns the items stored under key (exact match only), and whether
// the key was present.
func (s *KeyValueStore) Get(key string) ([]suggest.CompletionIndexItem, bool) {
	v := s.trie.Get(patricia.Prefix(key))
	if v == nil {
		return nil, false
	}
	items, ok := v.([]suggest.CompletionIndexItem)
	return items, ok
}

// Size returns the number of distinct keys loaded.
func (s *KeyValueStore) Size() int { return s.size }

// Load reads a msgpack-encoded map[string][]CompletionIndexItem from file
// and populates the store. This replaces the original's
// serial::Serializer::FromBinary(ifstream, kv_map) with the pack's msgpack
// dependency, since the persisted format here is a language-agnostic blob
// rather than a fixed C++ struct layout.
func (s *KeyValueStore) Load(filename string) error {
	var raw map[string][]suggest.CompletionIndexItem
	if err := store.LoadMsgpack(filename, &raw); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	for k, v := range raw {
		s.Insert(k, v)
	}
	log.Debugf("index: loaded %d keys from %s", len(raw), filename)
	return nil
}

// KeyValueExStore is the extended variant whose items carry a per-match
// index score, grounded on the original's SuggestKeyValueExMap.
type KeyValueExStore struct {
	trie *patricia.Trie
	size int
}

// NewKeyValueExStore returns an empty store, ready for Load or Insert.
func NewKeyValueExStore() *KeyValueExStore {
	return &KeyValueExStore{trie: patricia.NewTrie()}
}

func (s *KeyValueExStore) Insert(key string, items []suggest.CompletionIndexItemEx) {
	s.trie.Insert(patricia.Prefix(key), items)
	s.size++
}

func (s *KeyValueExStore) Get(key string) ([]suggest.CompletionIndexItemEx, bool) {
	v := s.trie.Get(patricia.Prefix(key))
	if v == nil {
		return nil, false
	}
	items, ok := v.([]suggest.CompletionIndexItemEx)
	return items, ok
}

func (s *KeyValueExStore) Size() int { return s.size }

func (s *KeyValueExStore) Load(filename string) error {
	var raw map[string][]suggest.CompletionIndexItemEx
	if err := store.LoadMsgpack(filename, &raw); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	for k, v := range raw {
		s.Insert(k, v)
	}
	log.Debugf("index: loaded %d keys from %s", len(raw), filename)
	return nil
}
