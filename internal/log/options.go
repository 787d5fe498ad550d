// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
)

// Option is the type to specify settings modifier
// for the logger operation.
type Option func(s *settings)

// SetLevel sets the level for the logger.
// The level defaults to Info.
func SetLevel(level Level) Option {
	return func(s *settings) {
		s.level = &level
	}
}

// SetWriter sets the writer for the logger.
// The writer defaults to os.Stdout.
func SetWriter(writer io.Writer) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// AddContext adds the context for the logger as a key values pair.
// It adds them in order. If a key already exists, the value is added to the
// existing values.
func AddContext(key, value string) Option {
	return func(s *settings) {
		for i := range s.context {
			if s.context[i].key == key {
				s.context[i].values = append(s.context[i].values, value)
				return
			}
		}
		newKV := contextKeyValues{key: key, values: []string{value}}
		s.context = append(s.context, newKV)
	}
}

type contextKeyValues struct {
	key    string
	values []string
}

type settings struct {
	level   *Level
	writer  io.Writer
	context []contextKeyValues
}

func newSettings(options []Option) (s settings) {
	for _, option := range options {
		option(&s)
	}
	return s
}

func (s *settings) setDefaults(defaultWriter io.Writer) {
	if s.level == nil {
		level := Info
		s.level = &level
	}
	if s.writer == nil {
		s.writer = defaultWriter
	}
}

// mergeWith returns a copy of the settings merged
// with the other settings given. The other settings
// override the receiver settings for scalar fields,
// and extend it for the context key values.
func (s settings) mergeWith(other settings) (merged settings) {
	merged.level = s.level
	if other.level != nil && *other.level != DoNotChange {
		merged.level = other.level
	}

	merged.writer = s.writer
	if other.writer != nil {
		merged.writer = other.writer
	}

	merged.context = make([]contextKeyValues, 0, len(s.context)+len(other.context))
	for _, kv := range s.context {
		values := make([]string, len(kv.values))
		copy(values, kv.values)
		merged.context = append(merged.context, contextKeyValues{key: kv.key, values: values})
	}
	for _, kv := range other.context {
		var found bool
		for i := range merged.context {
			if merged.context[i].key == kv.key {
				merged.context[i].values = append(merged.context[i].values, kv.values...)
				found = true
				break
			}
		}
		if !found {
			values := make([]string, len(kv.values))
			copy(values, kv.values)
			merged.context = append(merged.context, contextKeyValues{key: kv.key, values: values})
		}
	}

	return merged
}
