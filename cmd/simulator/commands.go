package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

func newClient() *Client {
	return NewClient(serverURL, token, logger)
}

func registerCmd() *cobra.Command {
	var in ports.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a merchant account and print its access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %s (vendor %s)\n", res.User.Email, res.Vendor.ID)
			fmt.Fprintf(out, "export MRU_TOKEN=%s\n", res.Tokens.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "Demo Merchant", "Owner name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Login password")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&in.BusinessName, "business", "Demo Shop", "Business name")
	cmd.Flags().StringVar(&in.Locale, "locale", "en", "Preferred language (en or fr)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := newClient().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export MRU_TOKEN=%s\n", tokens.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func speakCmd() *cobra.Command {
	var (
		locale  string
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "speak <transcript>",
		Short: "Send a spoken sentence through the voice flow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := newClient()
			out := cmd.OutOrStdout()

			if _, err := client.Listen(ctx, locale); err != nil {
				return err
			}
			session, err := client.Transcript(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if session.Summary == nil {
				fmt.Fprintf(out, "Not understood: %s\n", session.Message)
				return nil
			}

			printSummary(out, session.Summary)
			if !confirm {
				fmt.Fprintln(out, "Draft kept. Re-run with --confirm to record it.")
				return nil
			}

			result, err := client.Confirm(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result.Message)
			if result.Entry != nil {
				fmt.Fprintf(out, "Ledger entry %s: %s %s\n", result.Entry.ID, result.Entry.Type, result.Entry.Amount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "en", "Voice locale (en or fr)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the parsed draft")
	return cmd
}

func printSummary(out io.Writer, s *domain.TransactionSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Type\t%s\n", s.Type)
	fmt.Fprintf(w, "Item\t%s\n", s.Item)
	fmt.Fprintf(w, "Amount\t%s\n", s.Amount)
	if s.Customer != "" {
		fmt.Fprintf(w, "Customer\t%s\n", s.Customer)
	}
	if s.Method != "" {
		fmt.Fprintf(w, "Method\t%s\n", s.Method)
	}
	if s.Tax != "" {
		fmt.Fprintf(w, "Tax\t%s\n", s.Tax)
	}
	w.Flush()
}

func ledgerCmd() *cobra.Command {
	var filter domain.LedgerFilter
	var date, typ string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print the filtered ledger grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Date = domain.DateFilter(date)
			filter.Type = domain.EntryType(typ)

			view, err := newClient().Ledger(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, g := range view.Groups {
				fmt.Fprintf(w, "%s (%s)\t\t\t\t\n", g.Label, g.Date)
				for _, e := range g.Entries {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", e.Time, e.Type, e.Description, e.Amount.StringFixed(2), e.Method)
				}
			}
			fmt.Fprintf(w, "\nSales\t%s\nVAT\t%s\nNet\t%s\nEntries\t%d\n",
				view.Totals.Sales.StringFixed(2), view.Totals.VAT.StringFixed(2), view.Totals.Net.StringFixed(2), view.Totals.Count)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "all", "today, yesterday, week, month or all")
	cmd.Flags().StringVar(&typ, "type", "all", "sale, purchase, payment, received, transfer or all")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Case-insensitive description search")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream live ledger and order events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching for events, press Ctrl+C to stop")
			return newClient().Watch(ctx, func(evt domain.Event) {
				logger.Debug("Event", zap.String("type", evt.Type), zap.ByteString("payload", evt.Payload))
				fmt.Fprintf(out, "%s  %-28s %s\n", evt.OccurredAt.Format("15:04:05"), evt.Type, string(evt.Payload))
			})
		},
	}
}
