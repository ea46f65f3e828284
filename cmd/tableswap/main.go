// Package main provides the tableswap CLI.
package main

import "github.com/mesh-intelligence/tableswap/internal/cli"

func main() {
	cli.Execute()
}
