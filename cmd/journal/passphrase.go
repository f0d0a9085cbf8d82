package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassphrase returns the passphrase from JOURNAL_PASSPHRASE, the
// --passphrase-file flag, or an interactive prompt, in that order.
func readPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	if v := os.Getenv("JOURNAL_PASSPHRASE"); v != "" {
		return v, nil
	}

	if path, _ := cmd.Flags().GetString("passphrase-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading passphrase file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for the passphrase prompt (use --passphrase-file or JOURNAL_PASSPHRASE)")
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// newPassphrase reads a passphrase and, when prompting, asks for it twice.
func newPassphrase(cmd *cobra.Command) (string, error) {
	interactive := os.Getenv("JOURNAL_PASSPHRASE") == ""
	if path, _ := cmd.Flags().GetString("passphrase-file"); path != "" {
		interactive = false
	}

	first, err := readPassphrase(cmd, "New passphrase: ")
	if err != nil {
		return "", err
	}
	if !interactive {
		return first, nil
	}

	second, err := readPassphrase(cmd, "Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}
