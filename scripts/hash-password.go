package main

import (
	"fmt"
	"os"

	"github.com/questionhub/qa-server-go/internal/util"
)

// Prints an argon2id hash suitable for the accounts.password column, for
// seeding accounts directly in the database.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hash, err := util.HashPassword([]byte(os.Args[1]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
