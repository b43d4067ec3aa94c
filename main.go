package main

import (
	"os"

	"github.com/hip-hyena/geonamesdb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
