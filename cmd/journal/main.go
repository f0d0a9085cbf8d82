package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"journal-coach/internal/app"
	"journal-coach/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env in the working directory is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file (if any) and applies environment overrides.
func loadConfig() (*config.Config, string, error) {
	paths, err := app.DefaultPaths(nil)
	if err != nil {
		return nil, "", fmt.Errorf("resolving paths: %w", err)
	}

	cfg, err := config.Load(paths.ConfigFile, paths.BaseDir, os.Getenv)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, paths.ConfigFile, nil
}

// newApp reads the config and creates a JournalApp. The caller must defer a.Close().
func newApp(component string, schema app.SchemaMode, console io.Writer) (*app.JournalApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewJournalApp(cfg, app.Options{
		Component: component,
		Console:   console,
		Schema:    schema,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:          "journal",
	Short:        "Journal coach MCP server",
	Version:      version,
	SilenceUsage: true,
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP endpoint over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("serve", app.SchemaMigrate, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		return a.Serve(ctx, version)
	},
}

// stdio command
var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve one MCP session over stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries protocol messages only.
		a, err := newApp("stdio", app.SchemaMigrate, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		return a.ServeStdio(ctx, version, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
