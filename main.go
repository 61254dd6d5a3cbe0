// Package main provides the entrypoint for litium-webhooks.
package main

import (
	"os"

	"github.com/isometry/litium-webhooks/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
