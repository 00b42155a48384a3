package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rg-retail/packsplit-backend/pkg/config"
	"github.com/rg-retail/packsplit-backend/pkg/security"
)

// Produces the argon2id hash expected in PACKSPLIT_OPERATOR_PASSWORD_HASH.
func main() {
	password := flag.String("password", "", "password to hash (reads stdin when empty)")
	flag.Parse()

	value := *password
	if value == "" {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password provided")
			os.Exit(1)
		}
		value = strings.TrimRight(line, "\r\n")
	}

	if value == "" {
		fmt.Fprintln(os.Stderr, "no password provided")
		os.Exit(1)
	}

	hash, err := security.HashPassword(value, config.PasswordConfig{
		ArgonMemoryKB:    64 * 1024,
		ArgonTime:        3,
		ArgonParallelism: 2,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
