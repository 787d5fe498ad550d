// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import "errors"

var (
	// ErrEntrypointMissing is returned when the runtime module does
	// not export a required genesis-interface entrypoint.
	ErrEntrypointMissing = errors.New("entrypoint missing from runtime module")

	// ErrPresetNotFound is returned when the requested preset id is
	// not known to the runtime.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrBuildFailed is returned when runtime execution trapped or
	// returned an error during genesis construction. The runtime's
	// diagnostic is wrapped verbatim.
	ErrBuildFailed = errors.New("runtime genesis build failed")
)
