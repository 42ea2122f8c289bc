package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware/auth"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token [token]",
	Short: "Hash an admin token for admin_token_hash",
	Long: `Hash an admin bearer token with argon2id. Put the output in
admin_token_hash (config.toml) or ADMIN_TOKEN_HASH to enable the admin API.
Without an argument the token is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) == 1 {
			token = args[0]
		} else {
			var err error
			if token, err = promptToken(); err != nil {
				return err
			}
		}

		hash, err := auth.HashToken(token, auth.DefaultArgon2Params())
		if err != nil {
			return fmt.Errorf("failed to hash token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashTokenCmd)
}

// promptToken reads and confirms a token from stdin.
func promptToken() (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintf(os.Stderr, "Enter admin token (min %d chars): ", auth.MinTokenLength)
	token, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if len(token) < auth.MinTokenLength {
		return "", fmt.Errorf("token must be at least %d characters", auth.MinTokenLength)
	}

	fmt.Fprint(os.Stderr, "Confirm token: ")
	confirm, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.TrimSpace(confirm) != token {
		return "", errors.New("tokens do not match")
	}
	return token, nil
}
