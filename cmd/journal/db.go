package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"journal-coach/internal/app"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the journal database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("db", app.SchemaSkip, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.MigrateUp(); err != nil {
			return err
		}
		st, err := a.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Database %s at schema version %d\n", a.DatabasePath(), st.Current)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("db", app.SchemaSkip, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.MigrationStatus()
		if err != nil {
			return err
		}

		fmt.Printf("Database: %s\n", a.DatabasePath())
		fmt.Printf("Version:  %d (latest %d)\n", st.Current, st.Latest)
		switch {
		case st.Dirty:
			fmt.Println("Status:   dirty (a migration failed)")
		case st.UpToDate():
			fmt.Println("Status:   up to date")
		case st.Current < st.Latest:
			fmt.Printf("Status:   %d migration(s) pending\n", st.Latest-st.Current)
		default:
			fmt.Println("Status:   newer than this binary")
		}
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
}
