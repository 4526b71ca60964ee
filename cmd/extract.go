package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samruben96/documine-sub012/internal/extractor"
	"github.com/samruben96/documine-sub012/internal/model"
	"github.com/samruben96/documine-sub012/internal/store"
	anthropicpkg "github.com/samruben96/documine-sub012/pkg/anthropic"
)

var extractSave bool

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract structured coverage data from quote document text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (DOCUMINE_ANTHROPIC_KEY)")
		}

		docs := make([]extractor.Document, 0, len(args))
		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}
			docs = append(docs, extractor.Document{
				SourceFile: filepath.Base(path),
				Text:       string(text),
			})
		}

		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		ex := extractor.New(client, cfg.Anthropic, cfg.Extract)

		results, err := ex.ExtractAll(ctx, docs)
		if err != nil {
			return eris.Wrap(err, "extract documents")
		}

		type output struct {
			SourceFile string                 `json:"source_file"`
			QuoteID    string                 `json:"quote_id,omitempty"`
			Extraction *model.QuoteExtraction `json:"extraction,omitempty"`
			Error      string                 `json:"error,omitempty"`
		}

		var st store.Store
		if extractSave {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			st = s
		}

		outputs := make([]output, 0, len(results))
		failed := 0
		for _, res := range results {
			out := output{SourceFile: res.SourceFile, Extraction: res.Extraction}
			if res.Err != nil {
				out.Error = res.Err.Error()
				failed++
			} else if st != nil {
				quote, err := st.CreateQuote(ctx, res.SourceFile, *res.Extraction)
				if err != nil {
					return eris.Wrapf(err, "store quote for %s", res.SourceFile)
				}
				out.QuoteID = quote.ID
			}
			outputs = append(outputs, out)
		}

		zap.L().Info("extraction complete",
			zap.Int("documents", len(results)),
			zap.Int("failed", failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return eris.Wrap(err, "encode output")
		}

		if failed == len(results) {
			return eris.New("all documents failed extraction")
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "store extractions as quotes")
	rootCmd.AddCommand(extractCmd)
}
