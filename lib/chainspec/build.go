// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import (
	"fmt"
	"os"

	"github.com/polkabuild/chainspec/lib/runtime"
)

// BuildSpec wraps a specification document through the build
// pipeline, from its human readable form to the raw form a node loads
// without runtime execution.
type BuildSpec struct {
	spec *ChainSpec
}

// NewBuildSpec wraps an assembled specification.
func NewBuildSpec(spec *ChainSpec) *BuildSpec {
	return &BuildSpec{spec: spec}
}

// Spec returns the wrapped specification.
func (b *BuildSpec) Spec() *ChainSpec {
	return b.spec
}

// ToJSON serializes the wrapped specification as it stands.
func (b *BuildSpec) ToJSON() ([]byte, error) {
	return b.spec.ToJSON()
}

// ToJSONRaw converts the wrapped specification to raw form through
// the given runtime and serializes the result. The wrapped
// specification is left unmodified if the build fails.
func (b *BuildSpec) ToJSONRaw(builder runtime.GenesisBuilder) ([]byte, error) {
	if err := b.spec.ToRaw(builder); err != nil {
		return nil, err
	}
	return b.spec.ToJSON()
}

// BuildFromSpecFile reads and decodes an existing specification file.
func BuildFromSpecFile(path string) (*BuildSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading specification file: %w", err)
	}
	spec, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &BuildSpec{spec: spec}, nil
}

// WriteSpecFile serializes the wrapped specification to the given
// path. It refuses to overwrite an existing file.
func (b *BuildSpec) WriteSpecFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s, rename to avoid overwriting", ErrSpecFileExists, path)
	}

	data, err := b.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
