// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"os"
	"sync"
)

// Logger is the logger implementation structure.
// It is thread safe to use.
type Logger struct {
	settings settings
	mutex    *sync.Mutex // pointer for child loggers
}

// New creates a new logger. If you want to create more loggers
// with different settings for the same writer, child loggers can
// be created using the New method on the logger, to ensure
// thread safety on the same writer.
func New(options ...Option) *Logger {
	s := newSettings(options)
	s.setDefaults(os.Stdout)

	return &Logger{
		settings: s,
		mutex:    new(sync.Mutex),
	}
}

// New creates a new thread safe child logger.
// It can use a different writer, but it is expected to use the
// same writer as its parent in order to share the same mutex.
func (l *Logger) New(options ...Option) *Logger {
	childSettings := l.settings.mergeWith(newSettings(options))
	return &Logger{
		settings: childSettings,
		mutex:    l.mutex,
	}
}

// Patch patches the existing settings with the options given.
func (l *Logger) Patch(options ...Option) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.settings = l.settings.mergeWith(newSettings(options))
}

// PatchLevel patches the level of the logger.
func (l *Logger) PatchLevel(level Level) {
	l.Patch(SetLevel(level))
}
