package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// tableProvider is implemented by results that have a tabular rendering.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// PrintResult writes data to stdout in the format chosen by --output.
// Values without a tabular rendering fall back to YAML for table output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format, noColor := OutputTable, false
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format, noColor = cliCtx.OutputFormat, cliCtx.NoColor
	} else if f := cmd.Flag("output"); f != nil {
		format = f.Value.String()
	}

	switch format {
	case OutputJSON:
		return printJSON(cmd, data)
	case OutputYAML:
		return printYAML(cmd, data)
	default:
		if tp, ok := data.(tableProvider); ok {
			fmt.Fprintln(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows(), noColor))
			return nil
		}
		return printYAML(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(cmd *cobra.Command, data interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// FormatTable renders headers and rows as a bordered table.  Header cells
// are bold unless plain is set.
func FormatTable(headers []string, rows [][]string, plain bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	if !plain {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	}
	return t.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

//Personal.AI order the ending
