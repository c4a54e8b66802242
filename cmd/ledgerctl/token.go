package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/auth"
)

var flagTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Issue a bearer token for the RPC server",
	Long:  "Sign a token for username with JWT_SECRET, for scripting against a server that validates tokens.",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&flagTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, args []string) error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := auth.NewJWTManager(secret, flagTTL).Generate(args[0])
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
