package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/samruben96/documine-sub012/internal/engine"
	"github.com/samruben96/documine-sub012/internal/export"
	"github.com/samruben96/documine-sub012/internal/model"
)

var (
	compareIDs    []string
	compareFormat string
	compareOutput string
	compareSave   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [<extraction.json>...]",
	Short: "Compare 2-4 quotes and report gaps and conflicts",
	Long:  "Compares extraction records from JSON files, or stored quotes named with --id. Files and stored quotes can be mixed as long as the total is between 2 and 4.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		total := len(args) + len(compareIDs)
		if total < 2 || total > 4 {
			return eris.Errorf("compare needs between 2 and 4 quotes, got %d", total)
		}

		engineCfg := engine.FromConfig(cfg.Engine.Tolerance, cfg.Engine.HighDelta, cfg.Engine.MediumDelta)

		var docs []model.QuoteExtraction
		for _, path := range args {
			doc, err := readExtractionFile(path)
			if err != nil {
				return err
			}
			docs = append(docs, *doc)
		}

		var quoteIDs []string
		if len(compareIDs) > 0 || compareSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range compareIDs {
				quote, err := st.GetQuote(ctx, id)
				if err != nil {
					return eris.Wrapf(err, "load quote %s", id)
				}
				docs = append(docs, quote.Extraction)
				quoteIDs = append(quoteIDs, id)
			}

			result := engine.Compare(docs, engineCfg)

			if compareSave {
				if len(args) > 0 {
					return eris.New("--save requires all quotes to be stored (use --id only)")
				}
				cmp, err := st.CreateComparison(ctx, quoteIDs, result)
				if err != nil {
					return eris.Wrap(err, "store comparison")
				}
				zap.L().Info("comparison stored", zap.String("comparison_id", cmp.ID))
			}

			return writeComparison(result, docNames(docs), compareFormat, compareOutput)
		}

		result := engine.Compare(docs, engineCfg)
		return writeComparison(result, docNames(docs), compareFormat, compareOutput)
	},
}

func readExtractionFile(path string) (*model.QuoteExtraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var raw any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&raw); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}

	doc, err := engine.ValidateRecord(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "validate %s", path)
	}
	return doc, nil
}

func docNames(docs []model.QuoteExtraction) []string {
	names := make([]string, len(docs))
	for i := range docs {
		names[i] = docs[i].Carrier()
	}
	return names
}

// writeComparison renders the result in the requested format to the output
// path, or stdout when the path is empty.
func writeComparison(result *model.ComparisonResult, names []string, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "create %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode json")
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return eris.Wrap(enc.Encode(result), "encode yaml")
	case "csv":
		return export.New().WriteCSV(out, result, names)
	case "xlsx":
		if outputPath == "" {
			return eris.New("xlsx output requires --output")
		}
		return export.New().WriteXLSX(out, result, names)
	default:
		return eris.Errorf("unsupported format: %s", format)
	}
}

func init() {
	compareCmd.Flags().StringArrayVar(&compareIDs, "id", nil, "stored quote ID (repeatable)")
	compareCmd.Flags().StringVar(&compareFormat, "format", "json", "output format: json, yaml, csv, or xlsx")
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "write output to file instead of stdout")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "persist the comparison (stored quotes only)")
	rootCmd.AddCommand(compareCmd)
}
