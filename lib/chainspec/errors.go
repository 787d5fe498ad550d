// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import "errors"

var (
	// ErrDecode is returned when a specification document cannot be
	// decoded. The wrapped message carries the offending field path.
	ErrDecode = errors.New("cannot decode specification document")

	// ErrUnknownField is returned when a specification document carries
	// a field this format does not define.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoGenesisVariant is returned when the genesis object holds
	// none of raw, patch or runtimeGenesisConfig.
	ErrNoGenesisVariant = errors.New("no genesis variant present")

	// ErrMultipleGenesisVariants is returned when the genesis object
	// holds more than one of raw, patch and runtimeGenesisConfig.
	ErrMultipleGenesisVariants = errors.New("multiple genesis variants present")

	// ErrMissingRuntimeCode is returned when a patch or full genesis
	// lacks the runtime code the node needs for the deferred build.
	ErrMissingRuntimeCode = errors.New("missing runtime code")

	// ErrInvalidChainType is returned for a chain type which is neither
	// a known name nor a custom chain type object.
	ErrInvalidChainType = errors.New("invalid chain type")

	// ErrInvalidTelemetryEndpoint is returned when a telemetry endpoint
	// is not a [url, verbosity] pair.
	ErrInvalidTelemetryEndpoint = errors.New("invalid telemetry endpoint")

	// ErrSpecFileExists is returned instead of overwriting an existing
	// specification file.
	ErrSpecFileExists = errors.New("specification file already exists")
)
