package main

import (
	"os"

	"github.com/japaniel/connections/pkg/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; CONNECTIONS_* variables may come from the shell.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
