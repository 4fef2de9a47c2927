// Package main provides the entry point for cartctl.
package main

import (
	"go-storefront-proxy/internal/cli"
)

func main() {
	cli.Execute()
}
