// Package main - todify CLI
//
// Usage:
//
//	go run ./cmd/todify fetch
//	go run ./cmd/todify indicators --code 600000 --start 2024-01-01
//	go run ./cmd/todify schedule
package main

import (
	"os"

	"github.com/homeant/todify/cmd/todify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
