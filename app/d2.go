package app

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mweagle/goscore/engine"
)

// /////////////////////////////////////////////////////////////////////////////
//
// TYPES
//
// /////////////////////////////////////////////////////////////////////////////

type d2TableParams struct {
	Key   string
	Value string
}

// D2Table is a sql_table shaped node in the report.
type D2Table struct {
	ID     string
	Name   string
	Params []*d2TableParams
}

type D2Connection struct {
	from string
	to   string
}

// /////////////////////////////////////////////////////////////////////////////
// ReportEncoder
//
// Writes a snapshot as a D2 diagram: the parameters and summary as tables,
// the cutoff tiles as a markdown node and the chart as an image node.
//
// /////////////////////////////////////////////////////////////////////////////
type ReportEncoder struct {
	Name      string
	ChartPath string
	log       *slog.Logger
	output    io.StringWriter
	writeErr  error
}

func d2Quote(value string) string {
	return strconv.Quote(value)
}

// write records the first error so callers can check once at the end.
func (re *ReportEncoder) write(format string, args ...interface{}) {
	if re.writeErr != nil {
		return
	}
	_, re.writeErr = re.output.WriteString(fmt.Sprintf(format, args...))
}

func (re *ReportEncoder) encodeTable(table *D2Table) {
	re.log.Debug("Encoding table", "id", table.ID, "rows", len(table.Params))
	re.write("%s : %s {\n", table.ID, d2Quote(table.Name))
	re.write("\tshape: sql_table\n")
	for _, eachParam := range table.Params {
		re.write("\t%s: %s\n", d2Quote(eachParam.Key), d2Quote(eachParam.Value))
	}
	re.write("}\n\n")
}

func (re *ReportEncoder) encodeMarkdownNode(id string, heading string, rows []string) {
	re.log.Debug("Markdown encoding node", "title", heading)
	re.write("%s : |md\n", id)
	re.write("# %s\n", heading)
	for _, eachRow := range rows {
		re.write("- %s\n", eachRow)
	}
	re.write("|\n\n")
}

func parametersTable(snapshot *engine.Snapshot) *D2Table {
	return &D2Table{
		ID:   "parameters",
		Name: "Parameters",
		Params: []*d2TableParams{
			{Key: "count", Value: strconv.Itoa(snapshot.Params.Count)},
			{Key: "mean", Value: fmt.Sprintf("%.2f", snapshot.Params.Mean)},
			{Key: "stdDev", Value: fmt.Sprintf("%.2f", snapshot.Params.StdDev)},
			{Key: "cutoff", Value: strconv.FormatFloat(snapshot.Cutoff, 'f', -1, 64)},
			{Key: "generation", Value: strconv.FormatUint(snapshot.Generation, 10)},
		},
	}
}

func summaryTable(snapshot *engine.Snapshot) *D2Table {
	table := &D2Table{
		ID:     "summary",
		Name:   "Summary Statistics",
		Params: []*d2TableParams{},
	}
	for _, eachLabel := range snapshot.Summary.Labels() {
		table.Params = append(table.Params, &d2TableParams{
			Key:   eachLabel.Name,
			Value: eachLabel.Value,
		})
	}
	return table
}

// Encode writes the report for snapshot to output.
func (re *ReportEncoder) Encode(snapshot *engine.Snapshot, output io.StringWriter, log *slog.Logger) error {
	re.output = output
	re.log = log
	re.writeErr = nil

	re.write(`
# Nodes
# ------------------------------------------------------------------------------

`)
	re.encodeMarkdownNode("title", re.Name, []string{
		fmt.Sprintf("**Sample**: %s", snapshot.Params.Name()),
	})
	re.encodeTable(parametersTable(snapshot))
	re.encodeTable(summaryTable(snapshot))

	tiles := snapshot.Classification.Tiles()
	re.encodeMarkdownNode("cutoff",
		fmt.Sprintf("Cutoff %g", snapshot.Cutoff),
		[]string{
			fmt.Sprintf("**%s**", tiles[0]),
			fmt.Sprintf("**%s**", tiles[1]),
			fmt.Sprintf("**%s**", tiles[2]),
		})

	connections := []*D2Connection{
		{from: "title", to: "parameters"},
		{from: "parameters", to: "summary"},
		{from: "parameters", to: "cutoff"},
	}
	if len(re.ChartPath) != 0 {
		re.write(`chart: Distribution {
shape: image
icon: %s
width: 768
height: 460
}
`, re.ChartPath)
		connections = append(connections,
			&D2Connection{from: "summary", to: "chart"},
			&D2Connection{from: "cutoff", to: "chart"})
	}

	re.write(`

# Connections
# ------------------------------------------------------------------------------
`)
	for _, eachConnection := range connections {
		re.write("%s -> %s\n", eachConnection.from, eachConnection.to)
	}
	return re.writeErr
}

// EncodeReport returns the D2 source for snapshot.
func EncodeReport(name string, chartPath string, snapshot *engine.Snapshot, log *slog.Logger) (string, error) {
	var builder strings.Builder
	encoder := &ReportEncoder{
		Name:      name,
		ChartPath: chartPath,
	}
	encodeErr := encoder.Encode(snapshot, &builder, log)
	if encodeErr != nil {
		return "", encodeErr
	}
	return builder.String(), nil
}
