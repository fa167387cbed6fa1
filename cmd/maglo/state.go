package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/tui"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			return withState(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, state *session.State) error {
				prompter := newPrompter(cmd)
				var err error
				if email == "" {
					if email, err = prompter.AskRequired(ctx, "Email"); err != nil {
						return err
					}
				}
				if !strings.Contains(email, "@") {
					return common.NewUserError(fmt.Sprintf("%q is not an email address", email), common.ErrInvalidInput)
				}
				if _, err := prompter.AskRequired(ctx, "Password"); err != nil {
					return err
				}

				if err := state.Login(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Welcome back, "+email))
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withState(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, state *session.State) error {
				if err := state.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Signed out"))
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sign-in state and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withState(cmd, func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error {
				prefs := state.Snapshot()
				transactions, err := store.CountRecords(ctx, model.CollectionTransactions)
				if err != nil {
					return err
				}
				invoices, err := store.CountRecords(ctx, model.CollectionInvoices)
				if err != nil {
					return err
				}

				signedIn := "no"
				if prefs.Authenticated {
					signedIn = "yes"
				}
				selected := prefs.SelectedCardID
				if selected == "" {
					selected = "none"
				}
				sidebar := "closed"
				if prefs.SidebarOpen {
					sidebar = "open"
				}

				var b strings.Builder
				_, _ = fmt.Fprintf(&b, "Signed in:     %s\n", signedIn)
				_, _ = fmt.Fprintf(&b, "Theme:         %s\n", prefs.Theme)
				_, _ = fmt.Fprintf(&b, "Sidebar:       %s\n", sidebar)
				_, _ = fmt.Fprintf(&b, "Selected card: %s\n", selected)
				_, _ = fmt.Fprintf(&b, "Transactions:  %d\n", transactions)
				_, _ = fmt.Fprintf(&b, "Invoices:      %d\n", invoices)
				_, _ = fmt.Fprintf(&b, "Database:      %s", store.Path())
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.WalletIcon+" Maglo", b.String()))
				return nil
			})
		},
	}
}

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Change display preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Set the theme, or toggle it when no value is given",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, state *session.State) error {
				if len(args) == 0 {
					if err := state.ToggleTheme(ctx); err != nil {
						return err
					}
				} else {
					theme, err := session.ParseTheme(args[0])
					if err != nil {
						return common.NewUserError("invalid theme", err)
					}
					if err := state.SetTheme(ctx, theme); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Theme set to %s", state.Snapshot().Theme)))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sidebar",
		Short: "Toggle the dashboard sidebar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withState(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, state *session.State) error {
				if err := state.ToggleSidebar(ctx); err != nil {
					return err
				}
				msg := "Sidebar closed"
				if state.Snapshot().SidebarOpen {
					msg = "Sidebar open"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
				return nil
			})
		},
	})

	return cmd
}

func uiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noMouse, _ := cmd.Flags().GetBool("no-mouse")
			return withState(cmd, func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error {
				if !state.Snapshot().Authenticated {
					return common.NewUserError("You are signed out. Run 'maglo login' first.", nil)
				}
				return tui.Run(ctx,
					tui.WithStorage(store),
					tui.WithSession(state),
					tui.WithMouse(!noMouse),
				)
			})
		},
	}
	cmd.Flags().Bool("no-mouse", false, "Disable mouse support")
	return cmd
}
