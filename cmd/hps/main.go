// Package main implements the hub provisioning service entry point.
package main

import (
	"os"

	"github.com/hub-provision/hps/cmd/hps/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
