package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "sessioncheck",
		Short: "Report whether a client session is valid",
		Long: `sessioncheck builds a session provider from SESSION_* and TRANSPORT_*
environment variables (optionally from .env files and SESSION_CONFIG_FILE),
runs GetSession and prints the result as JSON.

The exit code is 1 when the session is not valid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runCheck,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVar(&a.cookies, "cookie", nil, "cookie to send, as name=value (repeatable)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, ".env files to load before reading the environment")
	flags.BoolVar(&a.trustOK, "trust-ok", false, "treat a 2xx response as valid when no response hook is configured")

	rootCmd.AddCommand(a.loginCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotLoggedIn) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
