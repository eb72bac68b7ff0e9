package main

import (
	"fmt"
	"os"

	"github.com/blackroad/roadplugin/logging"
)

func main() {
	defer func() { _ = logging.Sync() }()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
