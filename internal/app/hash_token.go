package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/auth"
)

// runHashToken prints a bcrypt hash for API_TOKEN_HASH. Without --token a
// fresh token is generated and printed once.
func runHashToken(args []string) int {
	fs := flag.NewFlagSet("hash-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	token := fs.String("token", "", "Token to hash (generated when empty)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	value := strings.TrimSpace(*token)
	generated := value == ""
	if generated {
		var err error
		value, err = auth.GenerateToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
			return 1
		}
	}

	hash, err := auth.HashToken(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash token: %v\n", err)
		return 1
	}

	if generated {
		fmt.Printf("token=%s\n", value)
	}
	fmt.Printf("API_TOKEN_HASH=%s\n", hash)
	return 0
}
