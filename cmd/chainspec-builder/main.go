// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"

	"github.com/polkabuild/chainspec/cmd/chainspec-builder/commands"
)

func main() {
	configureCobraCmd("CHAINSPEC")
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
