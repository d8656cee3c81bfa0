// Command edumark runs the chat handler locally: as an HTTP server or for a
// single question.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFile string
	variant string
	debug   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "edumark",
		Short:         "Local tools for the EduMark chat backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.apply()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.PersistentFlags().StringVar(&flags.variant, "variant", "", "Chat variant (tutor, assistant, subject); overrides CHAT_VARIANT")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Debug logging and error details; overrides DEBUG")

	cmd.AddCommand(newServeCmd(), newAskCmd())
	return cmd
}

// apply loads the env file without overriding variables already set, then
// applies flag overrides on top.
func (f *rootFlags) apply() error {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f.envFile, err)
		}
	}
	if f.variant != "" {
		if err := os.Setenv("CHAT_VARIANT", f.variant); err != nil {
			return err
		}
	}
	if f.debug {
		if err := os.Setenv("DEBUG", "true"); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
