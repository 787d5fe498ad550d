// Copyright 2024 PolkaBuild Authors
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configureCobraCmd wires viper to read flag values from environment
// variables with the given prefix (eg. CHAINSPEC_LOG).
func configureCobraCmd(envPrefix string) {
	cobra.OnInitialize(func() { initEnv(envPrefix) })
}

func initEnv(prefix string) {
	viper.SetEnvPrefix(prefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}
