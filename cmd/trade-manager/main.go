package main

import (
	"os"

	"github.com/mprestonsparks/trade-manager/cmd/trade-manager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
