// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/polkabuild/chainspec/lib/common"
	"golang.org/x/crypto/blake2b"
)

// ErrMalformedStorageEvent is returned when the execution engine emits
// a storage write the collector cannot attribute to a trie.
var ErrMalformedStorageEvent = errors.New("malformed storage event")

// GenesisStorage is the deduplicated output of one genesis build:
// the top-level trie entries and the entries of every named child trie.
// Map keys are raw key bytes stored as strings.
type GenesisStorage struct {
	Top      map[string][]byte
	Children map[string]map[string][]byte
}

// changeSet tracks the surviving writes for a single trie.
// Later writes overwrite earlier ones and deletions remove
// prior writes for the same key.
type changeSet struct {
	upserts map[string][]byte
	deletes map[string]bool
}

func newChangeSet() *changeSet {
	return &changeSet{
		upserts: make(map[string][]byte),
		deletes: make(map[string]bool),
	}
}

func (cs *changeSet) get(key string) ([]byte, bool) {
	value, ok := cs.upserts[key]
	return value, ok
}

func (cs *changeSet) upsert(key string, value []byte) {
	// If we previously deleted this key we have to undo that deletion
	if cs.deletes[key] {
		delete(cs.deletes, key)
	}
	cs.upserts[key] = value
}

func (cs *changeSet) remove(key string) {
	delete(cs.upserts, key)
	cs.deletes[key] = true
}

// GenesisState collects every storage write performed during one
// genesis-build invocation and partitions it between the top-level
// trie and default child tries. It is safe for concurrent use.
type GenesisState struct {
	mutex    sync.RWMutex
	top      *changeSet
	children map[string]*changeSet
}

// NewGenesisState returns an empty genesis state collector.
func NewGenesisState() *GenesisState {
	return &GenesisState{
		top:      newChangeSet(),
		children: make(map[string]*changeSet),
	}
}

// Put records a top-level write. Writes to reserved child-storage keys
// declare the corresponding child trie instead of becoming literal
// top-level entries.
func (s *GenesisState) Put(key, value []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if id, ok := common.ChildTrieID(key); ok {
		s.ensureChild(string(id))
		return
	}
	s.top.upsert(string(key), value)
}

// Get returns the current value for a top-level key, or nil if the key
// has not been written during this build.
func (s *GenesisState) Get(key []byte) []byte {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, _ := s.top.get(string(key))
	return value
}

// Has returns true if the top-level key has a surviving write.
func (s *GenesisState) Has(key []byte) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.top.get(string(key))
	return ok
}

// Delete removes any prior write for the top-level key. Deleting a
// reserved child-storage key removes the whole child trie.
func (s *GenesisState) Delete(key []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if id, ok := common.ChildTrieID(key); ok {
		delete(s.children, string(id))
		return
	}
	s.top.remove(string(key))
}

// ClearPrefix removes every surviving top-level write whose key starts
// with the given prefix.
func (s *GenesisState) ClearPrefix(prefix []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p := string(prefix)
	for key := range s.top.upserts {
		if strings.HasPrefix(key, p) {
			s.top.remove(key)
		}
	}
}

// NextKey returns the next top-level key after the given one in
// raw-byte lexicographic order, or nil if there is none.
func (s *GenesisState) NextKey(key []byte) []byte {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var next string
	found := false
	for k := range s.top.upserts {
		if k <= string(key) {
			continue
		}
		if !found || k < next {
			next = k
			found = true
		}
	}
	if !found {
		return nil
	}
	return []byte(next)
}

// childID resolves a prefixed child storage key to the child trie
// identifier, failing if the reserved prefix is absent.
func childID(childStorageKey []byte) (string, error) {
	id, ok := common.ChildTrieID(childStorageKey)
	if !ok {
		return "", fmt.Errorf("%w: child trie selector 0x%x lacks the default child storage prefix",
			ErrMalformedStorageEvent, childStorageKey)
	}
	return string(id), nil
}

// ensureChild declares a child trie without writing any entry to it.
// The caller must hold the write lock.
func (s *GenesisState) ensureChild(id string) *changeSet {
	child := s.children[id]
	if child == nil {
		child = newChangeSet()
		s.children[id] = child
	}
	return child
}

// SetChildStorage records a write to the child trie declared by the
// given prefixed child storage key.
func (s *GenesisState) SetChildStorage(childStorageKey, key, value []byte) error {
	id, err := childID(childStorageKey)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ensureChild(id).upsert(string(key), value)
	return nil
}

// GetChildStorage returns the current value for a key in the given
// child trie, or nil if the key has not been written.
func (s *GenesisState) GetChildStorage(childStorageKey, key []byte) ([]byte, error) {
	id, err := childID(childStorageKey)
	if err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	child := s.children[id]
	if child == nil {
		return nil, nil
	}
	value, _ := child.get(string(key))
	return value, nil
}

// ClearChildStorage removes any prior write for a key in the given
// child trie.
func (s *GenesisState) ClearChildStorage(childStorageKey, key []byte) error {
	id, err := childID(childStorageKey)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if child := s.children[id]; child != nil {
		child.remove(string(key))
	}
	return nil
}

// ClearChildPrefix removes every surviving write in the child trie
// whose key starts with the given prefix.
func (s *GenesisState) ClearChildPrefix(childStorageKey, prefix []byte) error {
	id, err := childID(childStorageKey)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	child := s.children[id]
	if child == nil {
		return nil
	}
	p := string(prefix)
	for key := range child.upserts {
		if strings.HasPrefix(key, p) {
			child.remove(key)
		}
	}
	return nil
}

// NextChildKey returns the next key after the given one in the child
// trie, in raw-byte lexicographic order, or nil if there is none.
func (s *GenesisState) NextChildKey(childStorageKey, key []byte) ([]byte, error) {
	id, err := childID(childStorageKey)
	if err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	child := s.children[id]
	if child == nil {
		return nil, nil
	}
	var next string
	found := false
	for k := range child.upserts {
		if k <= string(key) {
			continue
		}
		if !found || k < next {
			next = k
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	return []byte(next), nil
}

// DeleteChild removes the whole child trie declared by the given
// prefixed child storage key.
func (s *GenesisState) DeleteChild(childStorageKey []byte) error {
	id, err := childID(childStorageKey)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.children, id)
	return nil
}

// sortedKeys returns the keys of the given upsert map in ascending
// raw-byte lexicographic order.
func sortedKeys(upserts map[string][]byte) []string {
	keys := make([]string, 0, len(upserts))
	for key := range upserts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Root computes a deterministic digest over the collected state, fed
// to the runtime when it asks for a storage root during the build.
// The digest never reaches the emitted specification document.
func (s *GenesisState) Root() [32]byte {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}

	for _, key := range sortedKeys(s.top.upserts) {
		hasher.Write([]byte(key))
		hasher.Write(s.top.upserts[key])
	}

	childIDs := make([]string, 0, len(s.children))
	for id := range s.children {
		childIDs = append(childIDs, id)
	}
	sort.Strings(childIDs)
	for _, id := range childIDs {
		hasher.Write(common.DefaultChildStorageKeyPrefix)
		hasher.Write([]byte(id))
		child := s.children[id]
		for _, key := range sortedKeys(child.upserts) {
			hasher.Write([]byte(key))
			hasher.Write(child.upserts[key])
		}
	}

	var root [32]byte
	copy(root[:], hasher.Sum(nil))
	return root
}

// Genesis extracts the collected storage as an independently owned
// GenesisStorage. Child tries with no surviving keys are dropped.
func (s *GenesisState) Genesis() *GenesisStorage {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := &GenesisStorage{
		Top:      maps.Clone(s.top.upserts),
		Children: make(map[string]map[string][]byte),
	}
	for id, child := range s.children {
		if len(child.upserts) == 0 {
			continue
		}
		out.Children[id] = maps.Clone(child.upserts)
	}
	return out
}
