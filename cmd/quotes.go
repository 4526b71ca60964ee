package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samruben96/documine-sub012/internal/model"
	"github.com/samruben96/documine-sub012/internal/store"
)

var (
	quotesCarrier string
	quotesLimit   int
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Manage stored quotes",
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		quotes, err := st.ListQuotes(ctx, store.QuoteFilter{Carrier: quotesCarrier, Limit: quotesLimit})
		if err != nil {
			return eris.Wrap(err, "list quotes")
		}

		return formatQuotesList(os.Stdout, quotes)
	},
}

func formatQuotesList(out io.Writer, quotes []model.StoredQuote) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCARRIER\tSOURCE\tCOVERAGES\tCREATED")
	for _, q := range quotes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			q.ID, q.Extraction.Carrier(), q.SourceFile,
			len(q.Extraction.Coverages), q.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

var quotesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored quote's extraction record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		quote, err := st.GetQuote(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "get quote %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(quote)
	},
}

var quotesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored quote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteQuote(ctx, args[0]); err != nil {
			return eris.Wrapf(err, "delete quote %s", args[0])
		}
		zap.L().Info("quote deleted", zap.String("quote_id", args[0]))
		return nil
	},
}

func init() {
	quotesListCmd.Flags().StringVar(&quotesCarrier, "carrier", "", "filter by carrier name")
	quotesListCmd.Flags().IntVar(&quotesLimit, "limit", 0, "maximum quotes to list")
	quotesCmd.AddCommand(quotesListCmd, quotesShowCmd, quotesDeleteCmd)
	rootCmd.AddCommand(quotesCmd)
}
