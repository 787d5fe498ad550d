// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package chainspec

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/multiformats/go-multiaddr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the specification for structural well-formedness:
// required identity fields, bootnode addresses parsing as multiaddrs
// and a marshalable genesis payload. Semantic validity of the genesis
// state itself is the runtime's business, not ours.
func (cs *ChainSpec) Validate() error {
	if err := validate.Struct(cs); err != nil {
		return fmt.Errorf("validating specification fields: %w", err)
	}

	for _, bootnode := range cs.BootNodes {
		if _, err := multiaddr.NewMultiaddr(bootnode); err != nil {
			return fmt.Errorf("validating bootnode address %q: %w", bootnode, err)
		}
	}

	if _, err := cs.Genesis.MarshalJSON(); err != nil {
		return err
	}
	return nil
}
