package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/config"
	"github.com/Veraticus/maglo/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Connect maglo to Google Sheets",
	}
	cmd.AddCommand(authSheetsCmd(), authStatusCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Sign in to Google and store a Sheets refresh token",
		Long: `Sign in to Google in your browser and store a refresh token for
'maglo export sheets'. The token is cached in sheets.token_file and
written to the config file as sheets.refresh_token.

Missing OAuth2 client credentials are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: runAuthSheets,
	}
	cmd.Flags().String("client-id", "", "OAuth2 client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "Listen address for the OAuth2 redirect")
	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.ReadSheetsConfig()
	prompter := newPrompter(cmd)

	for _, cred := range []struct {
		flag  string
		label string
		value *string
	}{
		{"client-id", "OAuth2 client ID", &cfg.ClientID},
		{"client-secret", "OAuth2 client secret", &cfg.ClientSecret},
	} {
		if v, _ := cmd.Flags().GetString(cred.flag); v != "" {
			*cred.value = v
		}
		if *cred.value != "" {
			continue
		}
		v, err := prompter.AskRequired(ctx, cred.label)
		if errors.Is(err, cli.ErrInputClosed) {
			return fmt.Errorf("%w: set sheets.client_id and sheets.client_secret or pass --%s", sheets.ErrNoCredentials, cred.flag)
		}
		if err != nil {
			return err
		}
		*cred.value = v
	}
	callback, _ := cmd.Flags().GetString("callback")

	tokenFile := config.TokenPath()
	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	})
	if err != nil {
		return fmt.Errorf("google sign-in failed: %w", err)
	}

	viper.Set("sheets.client_id", cfg.ClientID)
	viper.Set("sheets.client_secret", cfg.ClientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)
	out := cmd.OutOrStdout()
	if err := saveConfig(); err != nil {
		slog.Warn("Could not write config file", "error", err)
		_, _ = fmt.Fprintln(out, cli.FormatWarning("The refresh token was not written to the config file; it is cached in "+tokenFile))
		return nil
	}
	_, _ = fmt.Fprintln(out, cli.FormatSuccess("Google Sheets connected"))
	return nil
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which Google credentials export would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.ReadSheetsConfig()
			var b strings.Builder
			switch {
			case cfg.HasServiceAccount() && cfg.HasOAuth():
				b.WriteString("Credentials:   conflicting (OAuth2 and service account)\n")
			case cfg.HasServiceAccount():
				fmt.Fprintf(&b, "Credentials:   service account (%s)\n", cfg.ServiceAccountPath)
			case cfg.HasOAuth():
				b.WriteString("Credentials:   OAuth2 refresh token\n")
			case needsRefreshToken(cfg):
				b.WriteString("Credentials:   OAuth2 client without token, run 'maglo auth sheets'\n")
			default:
				b.WriteString("Credentials:   none\n")
			}
			spreadsheet := cfg.SpreadsheetID
			if spreadsheet == "" {
				spreadsheet = "new \"" + cfg.SpreadsheetName + "\" on first export"
			}
			fmt.Fprintf(&b, "Spreadsheet:   %s\n", spreadsheet)
			if cfg.TimeZone != "" {
				fmt.Fprintf(&b, "Time zone:     %s\n", cfg.TimeZone)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}

// saveConfig writes viper's settings back to the config file in use, or to
// the default location when none was read.
func saveConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "maglo", "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return viper.WriteConfigAs(path)
}
