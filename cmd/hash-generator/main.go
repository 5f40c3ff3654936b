// Command hash-generator prints bcrypt hashes for employee passwords, for
// seeding rows by hand or checking a stored hash.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	verify := flag.String("verify", "", "compare the passwords against this hash instead of hashing them")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *cost, *verify); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run reads one password per line from in.
func run(in io.Reader, out io.Writer, cost int, verify string) error {
	hasher := auth.NewBcryptHasher(cost)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		password := strings.TrimRight(scanner.Text(), "\r")
		if password == "" {
			continue
		}
		if verify != "" {
			result := "match"
			if hasher.Compare(verify, password) != nil {
				result = "no match"
			}
			fmt.Fprintln(out, result)
			continue
		}
		if len(password) < domain.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters long", domain.MinPasswordLength)
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hash)
	}
	return scanner.Err()
}
