//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	integrationTag = "integration"
	coverProfile   = "coverage.out"
)

// Test groups test targets (all, unit, integration, cover).
type Test mg.Namespace

// All runs unit tests, then the container-backed integration tests.
func (Test) All() {
	mg.SerialDeps(Test.Unit, Test.Integration)
}

// Unit runs the tests that need nothing beyond a temp directory.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Integration runs the postgres and mysql dialect tests against
// testcontainers. It fails early when no container runtime is usable.
func (Test) Integration() error {
	rt := containerRuntime()
	if rt == "" {
		return fmt.Errorf("integration tests need docker or podman")
	}
	fmt.Printf("Using container runtime: %s\n", rt)
	return sh.RunV(binGo, "test", "-tags", integrationTag, "-count=1", "-run", "Integration", "./internal/sqldb/...")
}

// Cover runs unit tests with a coverage profile and prints the summary.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// containerRuntime returns "podman" or "docker" if a working runtime is
// available, or "" if neither is usable.
func containerRuntime() string {
	for _, name := range []string{"docker", "podman"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}
