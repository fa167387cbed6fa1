package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and restore database backups",
		Long: `Create, list and restore database backups.

Backups live in a "backups" directory beside the database. Imports take an
automatic backup first; only the five newest automatic backups are kept.`,
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupListCmd())
	cmd.AddCommand(backupRestoreCmd())
	cmd.AddCommand(backupDeleteCmd())

	return cmd
}

// withBackups runs fn with a backup manager for the configured database.
func withBackups(cmd *cobra.Command, fn func(ctx context.Context, bm *storage.BackupManager) error) error {
	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		bm, err := store.NewBackupManager()
		if err != nil {
			return err
		}
		return fn(ctx, bm)
	})
}

func backupCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}
			description, _ := cmd.Flags().GetString("description")
			return withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				info, err := bm.Create(ctx, tag, description)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s (%d transactions, %d invoices, %d cards)",
					info.ID, info.Transactions, info.Invoices, info.Cards)))
				return nil
			})
		},
	}
	cmd.Flags().StringP("description", "m", "Manual backup", "Backup description")
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				backups, err := bm.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(backups) == 0 {
					_, _ = fmt.Fprintln(out, cli.FormatInfo("No backups yet."))
					return nil
				}

				_, _ = fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("%s %d backups", cli.FolderIcon, len(backups))))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tCREATED\tRECORDS\tCARDS\tSIZE\tDESCRIPTION")
				for _, b := range backups {
					desc := b.Description
					if b.IsAuto {
						desc += " (auto)"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
						b.ID,
						b.CreatedAt.Format("2006-01-02 15:04"),
						b.Transactions+b.Invoices,
						b.Cards,
						formatSize(b.FileSize),
						desc,
					)
				}
				return w.Flush()
			})
		},
	}
}

func backupRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			ctx := cmd.Context()

			if !force {
				ok, err := newPrompter(cmd).Confirm(ctx, fmt.Sprintf("Replace the current database with backup %s?", args[0]), false)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Restore cancelled."))
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			bm, err := store.NewBackupManager()
			if err != nil {
				_ = store.Close()
				return err
			}
			// Restore closes the database handle itself.
			if err := bm.Restore(ctx, args[0]); err != nil {
				_ = store.Close()
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Restored backup "+args[0]))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	return cmd
}

func backupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				if err := bm.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted backup "+args[0]))
				return nil
			})
		},
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
