// Package export renders comparison results as CSV and XLSX files for
// sharing outside the tool.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/samruben96/documine-sub012/internal/model"
)

// cell value used when a document does not carry the row's coverage.
const missingCell = "missing"

// Exporter renders comparison tables. Monetary amounts are formatted with
// US thousands separators.
type Exporter struct {
	printer *message.Printer
}

func New() *Exporter {
	return &Exporter{printer: message.NewPrinter(language.English)}
}

// money formats a dollar amount, falling back to the document's original
// wording when no numeric value was extracted.
func (e *Exporter) money(amount *float64, rawText string) string {
	if amount != nil {
		if *amount == float64(int64(*amount)) {
			return e.printer.Sprintf("$%d", int64(*amount))
		}
		return e.printer.Sprintf("$%.2f", *amount)
	}
	return rawText
}

// matrixRows builds the coverage matrix: one header row naming each
// document, then one row per coverage with the limit seen in each document.
func (e *Exporter) matrixRows(result *model.ComparisonResult, docNames []string) [][]string {
	header := append([]string{"Coverage"}, docNames...)
	rows := [][]string{header}

	for _, row := range result.Rows {
		out := make([]string, 0, len(docNames)+1)
		out = append(out, row.CoverageType.Label())
		for _, item := range row.Items {
			out = append(out, e.coverageCell(item))
		}
		rows = append(rows, out)
	}
	return rows
}

func (e *Exporter) coverageCell(item *model.CoverageItem) string {
	if item == nil {
		return missingCell
	}
	val := e.money(item.Limit, item.LimitText)
	if val == "" {
		val = "included"
	}
	if item.Deductible != nil {
		val += fmt.Sprintf(" (ded %s)", e.money(item.Deductible, ""))
	}
	if len(item.SourcePages) > 0 {
		val += fmt.Sprintf(" [%s]", pageCitation(item.SourcePages))
	}
	return val
}

// pageCitation renders source pages as "p. 2, 5" so every matrix cell keeps
// its trace back into the quote document.
func pageCitation(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return "p. " + strings.Join(parts, ", ")
}

// gapRows lists gap warnings, one per row.
func gapRows(result *model.ComparisonResult, docNames []string) [][]string {
	rows := [][]string{{"Coverage", "Severity", "Missing From"}}
	for _, gap := range result.Gaps {
		var missing []string
		for _, idx := range gap.DocumentsMissing {
			missing = append(missing, docName(docNames, idx))
		}
		rows = append(rows, []string{gap.Field, string(gap.Severity), strings.Join(missing, "; ")})
	}
	return rows
}

// conflictRows lists conflict warnings, one per row.
func conflictRows(result *model.ComparisonResult) [][]string {
	rows := [][]string{{"Coverage", "Field", "Type", "Severity", "Detail"}}
	for _, c := range result.Conflicts {
		rows = append(rows, []string{
			c.CoverageType.Label(), c.Field, string(c.ConflictType), string(c.Severity), c.Description,
		})
	}
	return rows
}

func summaryRows(result *model.ComparisonResult) [][]string {
	return [][]string{
		{"Risk Score", fmt.Sprintf("%d", result.RiskScore)},
		{"Risk Level", string(result.RiskLevel)},
		{"Gaps", fmt.Sprintf("%d", len(result.Gaps))},
		{"Conflicts", fmt.Sprintf("%d", len(result.Conflicts))},
	}
}

func docName(docNames []string, idx int) string {
	if idx >= 0 && idx < len(docNames) {
		return docNames[idx]
	}
	return fmt.Sprintf("document %d", idx+1)
}
