package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dooddles07/cyaadnu-frontend/cli"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
