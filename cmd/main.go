package main

import (
	"os"

	"github.com/itayyoh/k8s-questions-gen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
