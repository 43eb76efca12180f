package main

import (
	"os"

	"github.com/dmitrijs2005/gophchat/internal/client/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
