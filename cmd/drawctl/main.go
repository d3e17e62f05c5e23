package main

import (
	"io"
	"os"

	"github.com/google/logger"
)

func main() {
	defer logger.Init("drawctl", false, false, io.Discard).Close()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
