package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/task-planner-api/pkg/auth"
	"github.com/arnavshah/task-planner-api/pkg/config"
)

func main() {
	// Load .env from project root
	config.LoadDotEnv(".env", "../.env", "../../.env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	apiKey := auth.GenerateHMACKey([]byte(secret), userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
	fmt.Printf("Preview: %s\n", auth.KeyPreview(apiKey))
}
