package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage payment cards",
	}

	cmd.AddCommand(walletListCmd())
	cmd.AddCommand(walletAddCmd())
	cmd.AddCommand(walletFreezeCmd())
	cmd.AddCommand(walletSelectCmd())

	return cmd
}

func walletListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallet cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withState(cmd, func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error {
				cards, err := wallet.NewService(store, store).Cards(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return printJSON(out, cards)
				}
				if len(cards) == 0 {
					_, _ = fmt.Fprintln(out, cli.FormatInfo("No cards yet. Add one with: maglo wallet add"))
					return nil
				}
				return cli.RenderCards(out, cards, state.Snapshot().SelectedCardID)
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print cards as JSON")
	return cmd
}

func walletAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to the wallet",
		Long: `Add a card to the wallet.

Only the last four digits of the card number are kept. Missing values are
asked for interactively.`,
		Example: `  maglo wallet add --alias Travel --holder "Alex Morgan" --number 4111111111111111 --expiry 0927`,
		Args:    cobra.NoArgs,
		RunE:    runWalletAdd,
	}

	cmd.Flags().String("alias", "", "Card nickname")
	cmd.Flags().String("holder", "", "Card holder name")
	cmd.Flags().String("number", "", "Card number")
	cmd.Flags().String("expiry", "", "Expiry date (MM/YY)")
	cmd.Flags().String("network", "", "Visa or MasterCard (default Visa)")
	cmd.Flags().String("balance", "0", "Starting balance")
	cmd.Flags().String("variant", "primary", "Card style (primary, dark, light)")

	return cmd
}

func runWalletAdd(cmd *cobra.Command, _ []string) error {
	fields := map[string]string{}
	for _, name := range []string{"alias", "holder", "number", "expiry", "network", "balance", "variant"} {
		fields[name], _ = cmd.Flags().GetString(name)
	}

	balance, err := decimal.NewFromString(fields["balance"])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("invalid --balance %q", fields["balance"]), err)
	}

	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		prompter := newPrompter(cmd)
		for _, p := range []struct{ flag, label string }{
			{"alias", "Card alias"},
			{"holder", "Holder name"},
			{"number", "Card number"},
			{"expiry", "Expiry (MM/YY)"},
		} {
			if fields[p.flag] != "" {
				continue
			}
			answer, err := prompter.AskRequired(ctx, p.label)
			if err != nil {
				return err
			}
			fields[p.flag] = answer
		}
		if fields["network"] == "" {
			network, err := prompter.Choose(ctx, "Network",
				[]string{string(model.NetworkVisa), string(model.NetworkMasterCard)}, string(model.NetworkVisa))
			if err != nil {
				return err
			}
			fields["network"] = network
		}

		card, err := wallet.NewService(store, store).AddCard(ctx, wallet.NewCard{
			Balance: balance,
			Number:  fields["number"],
			Holder:  fields["holder"],
			Expiry:  fields["expiry"],
			Network: model.CardNetwork(fields["network"]),
			Alias:   fields["alias"],
			Variant: fields["variant"],
		})
		if err != nil {
			return err
		}
		common.LogInfo("Added card", common.Fields{"id": card.ID, "card_number": card.Number, "network": card.Network})

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", card.Label(), card.ID)))
		return nil
	})
}

func walletFreezeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <card-id>",
		Short: "Freeze or unfreeze a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				card, err := wallet.NewService(store, store).ToggleFreeze(ctx, args[0])
				if err != nil {
					return err
				}
				state := "unfrozen"
				if card.Frozen {
					state = "frozen"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s is now %s", card.Label(), state)))
				return nil
			})
		},
	}
}

func walletSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select [card-id]",
		Short: "Select the default card, or clear the selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error {
				id := ""
				if len(args) == 1 {
					card, err := store.GetCard(ctx, args[0])
					if err != nil {
						return err
					}
					id = card.ID
				}
				if err := state.SelectCard(ctx, id); err != nil {
					return err
				}
				msg := "Card selection cleared"
				if id != "" {
					msg = "Selected card " + id
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
				return nil
			})
		},
	}
}
