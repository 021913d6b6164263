package main

import (
	"os"

	"github.com/lee00100/ResumeRAG/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
