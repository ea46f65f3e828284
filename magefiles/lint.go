//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import "github.com/magefile/mage/sh"

const binLint = "golangci-lint"

// Lint runs go vet and golangci-lint, including the integration-tagged files.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "-tags", integrationTag, "./..."); err != nil {
		return err
	}
	return sh.RunV(binLint, "run", "--build-tags", integrationTag, "./...")
}
