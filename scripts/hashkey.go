//go:build ignore

// Generates or checks the bcrypt hash muadzin reads from API_KEY_HASH.
//
//	go run scripts/hashkey.go              # prompt for a key, print the env line
//	go run scripts/hashkey.go --escape     # escape $ for Makefiles / compose files
//	go run scripts/hashkey.go --check HASH # verify a key against an existing hash
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		escape bool
		check  string
		cost   int
	)

	cmd := &cobra.Command{
		Use:          "hashkey",
		Short:        "Hash an API key for API_KEY_HASH",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if check != "" {
				if err := bcrypt.CompareHashAndPassword([]byte(check), []byte(key)); err != nil {
					return errors.New("key does not match hash")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "key matches hash")
				return nil
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
			if err != nil {
				return fmt.Errorf("generate hash: %w", err)
			}

			out := string(hash)
			if escape {
				out = strings.ReplaceAll(out, "$", "$$")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API_KEY_HASH=%s\n", out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&escape, "escape", false, "escape $ as $$")
	cmd.Flags().StringVar(&check, "check", "", "verify the key against this hash instead of hashing")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readKey(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Enter API key: ")
	key, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("API key cannot be empty")
	}
	return key, nil
}
