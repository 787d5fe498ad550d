// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import "bytes"

var (
	// CodeKey is the key where runtime code is stored in the trie.
	CodeKey = []byte(":code")

	// DefaultChildStorageKeyPrefix is the prefix in the top-level trie
	// under which every default child trie is declared.
	DefaultChildStorageKeyPrefix = []byte(":child_storage:default:")
)

// IsChildStorageKey returns true if the given top-level key declares
// a default child trie.
func IsChildStorageKey(key []byte) bool {
	return bytes.HasPrefix(key, DefaultChildStorageKeyPrefix)
}

// ChildTrieID strips the default child storage prefix from the given
// key, returning the child trie identifier and whether the key carried
// the prefix at all.
func ChildTrieID(key []byte) (id []byte, ok bool) {
	if !IsChildStorageKey(key) {
		return nil, false
	}
	return key[len(DefaultChildStorageKeyPrefix):], true
}
