package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/aidbot-ai/aidbot/internal/adapters/driving/cli"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
