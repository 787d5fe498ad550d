// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package log

var globalLogger = New()

// NewFromGlobal creates a child logger from the global logger.
func NewFromGlobal(options ...Option) *Logger {
	return globalLogger.New(options...)
}

// Patch patches the global package logger.
func Patch(options ...Option) {
	globalLogger.Patch(options...)
}

// PatchLevel patches the global package logger level.
func PatchLevel(level Level) {
	globalLogger.PatchLevel(level)
}

// GlobalTrace logs at the trce level using the global logger.
func GlobalTrace(s string) { globalLogger.Trace(s) }

// GlobalDebug logs at the dbug level using the global logger.
func GlobalDebug(s string) { globalLogger.Debug(s) }

// GlobalInfo logs at the info level using the global logger.
func GlobalInfo(s string) { globalLogger.Info(s) }

// GlobalWarn logs at the warn level using the global logger.
func GlobalWarn(s string) { globalLogger.Warn(s) }

// GlobalError logs at the eror level using the global logger.
func GlobalError(s string) { globalLogger.Error(s) }

// GlobalCritical logs at the crit level using the global logger.
func GlobalCritical(s string) { globalLogger.Critical(s) }
