package command

import (
	"fmt"

	"github.com/joho/godotenv"
)

// loadEnvFile applies path without overriding variables already set.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
