// Package main provides a helper that generates an API key together
// with the bcrypt hash to put in the server's auth.key_hashes config.
// The plaintext key is shown once and never stored.
package main

import (
	"fmt"
	"os"

	"github.com/sungwon/mailvet/internal/auth"
)

func main() {
	key, err := auth.GenerateAPIKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.HashAPIKey(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("API key (give to the client, shown only once):\n  %s\n\n", key)
	fmt.Printf("Hash (add to auth.key_hashes in config.yaml):\n  %s\n", hash)
}
