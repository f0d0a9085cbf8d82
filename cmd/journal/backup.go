package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"journal-coach/internal/app"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the backup key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := newPassphrase(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("keys", app.SchemaSkip, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.InitKeys(passphrase); err != nil {
			return err
		}
		fmt.Println("Backup keys created. Keep the passphrase safe: restores need it.")
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the database into a vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("backup", app.SchemaCheck, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		obj, err := a.Backup(cmd.Context(), vaultName)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Backed up %s (%d bytes)\n", obj.Name, obj.Size)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in a vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("backup", app.SchemaCheck, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		objs, err := a.ListBackups(cmd.Context(), vaultName)
		if err != nil {
			return err
		}

		if len(objs) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		for _, o := range objs {
			fmt.Printf("%s  %10d  %s\n", o.ModifiedAt.Local().Format("2006-01-02 15:04:05"), o.Size, o.Name)
		}
		return nil
	},
}

var backupHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "View backup and restore history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("backup", app.SchemaCheck, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.BackupHistory(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No backup runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-8s  %s  %-8s  %-10s  %s\n",
				r.ID,
				r.Operation,
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Status,
				duration,
				r.Parameters,
			)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Restore a snapshot to a new database file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		output, _ := cmd.Flags().GetString("output")

		passphrase, err := readPassphrase(cmd, "Passphrase: ")
		if err != nil {
			return err
		}

		a, err := newApp("restore", app.SchemaCheck, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Restore(cmd.Context(), vaultName, args[0], output, passphrase); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %s to %s\n", args[0], output)
		fmt.Println("Stop the server and point database.path (or DB_PATH) at this file to use it.")
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysInitCmd)
	keysInitCmd.Flags().String("passphrase-file", "", "Read the passphrase from this file")

	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupHistoryCmd)
	backupCmd.PersistentFlags().String("vault", "", "Vault name (default: first configured)")
	backupHistoryCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	restoreCmd.Flags().String("vault", "", "Vault name (default: first configured)")
	restoreCmd.Flags().StringP("output", "o", "", "Path of the restored database (must not exist)")
	restoreCmd.Flags().String("passphrase-file", "", "Read the passphrase from this file")
	_ = restoreCmd.MarkFlagRequired("output")
}
