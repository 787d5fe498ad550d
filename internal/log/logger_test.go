// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_levels(t *testing.T) {
	color.NoColor = true

	buffer := bytes.NewBuffer(nil)
	logger := New(SetWriter(buffer), SetLevel(Warn))

	logger.Info("should be filtered out")
	assert.Empty(t, buffer.String())

	logger.Warn("some warning")
	line := buffer.String()
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} WARN some warning\n$`), line)
}

func TestLogger_context(t *testing.T) {
	color.NoColor = true

	buffer := bytes.NewBuffer(nil)
	logger := New(SetWriter(buffer),
		AddContext("pkg", "runtime"),
		AddContext("module", "wazero"))

	logger.Info("hello")
	assert.Contains(t, buffer.String(), "hello\tpkg=runtime module=wazero")
}

func TestLogger_childInheritsSettings(t *testing.T) {
	color.NoColor = true

	buffer := bytes.NewBuffer(nil)
	parent := New(SetWriter(buffer), SetLevel(Debug), AddContext("pkg", "a"))
	child := parent.New(AddContext("pkg", "b"))

	child.Debug("x")
	assert.Contains(t, buffer.String(), "pkg=a,b")
}

func TestLogger_Patch(t *testing.T) {
	color.NoColor = true

	buffer := bytes.NewBuffer(nil)
	logger := New(SetWriter(buffer), SetLevel(Error))

	logger.Info("filtered")
	require.Empty(t, buffer.String())

	logger.PatchLevel(Info)
	logger.Info("passes")
	assert.Contains(t, buffer.String(), "passes")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, Debug, level)

	_, err = ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrLevelNotRecognised)
}
