// Command token prints a bearer token for a user id, signed with JWT_SECRET.
// It is meant for local development against the memory store.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"creatorstack/internal/rbac/auth"
)

func main() {
	userID := flag.String("user", "", "user id placed in the sub claim")
	name := flag.String("name", "", "display name claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	tokens, err := auth.NewTokenService(os.Getenv("JWT_SECRET"), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	token, err := tokens.Issue(*userID, *name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
