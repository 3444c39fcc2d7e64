package main

import (
	"os"

	"github.com/se-bastiaan/captionconvert/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
