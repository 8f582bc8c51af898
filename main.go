package main

import (
	"os"

	"github.com/kochimetro/induction/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
