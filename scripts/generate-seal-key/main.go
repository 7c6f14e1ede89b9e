package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/leetboard/leetboard/internal/secret"
)

// Prints a fresh base64 key suitable for COOKIE_SEAL_KEY.
func main() {
	key, err := secret.GenerateKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate key:", err)
		os.Exit(1)
	}
	fmt.Println(base64.StdEncoding.EncodeToString(key))
}
