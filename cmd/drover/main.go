// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package main is the entry point for the drover plugin host.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func buildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	os.Exit(run(os.Args[1:]))
}
