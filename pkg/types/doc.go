// Package types defines the database connection contract, column and table
// definitions, configuration, and standard errors for tableswap.
// See DESIGN.md § Connection contract.
package types
