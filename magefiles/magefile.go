//go:build mage

// Package main provides build targets for the tableswap project using Mage.
//
// Usage:
//
//	mage build             Compile tableswap binary to bin/
//	mage test:all          Run unit and integration tests
//	mage test:unit         Run unit tests (sqlite only)
//	mage test:integration  Run postgres and mysql tests in containers
//	mage test:cover        Run unit tests with a coverage profile
//	mage lint              Run golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install tableswap to GOPATH/bin
package main
