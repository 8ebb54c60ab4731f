package app

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mweagle/goscore/engine"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgHiWhite)
	belowColor   = color.New(color.FgRed)
	atColor      = color.New(color.FgYellow)
	aboveColor   = color.New(color.FgGreen)
)

// PrintSummary writes the label/value list and the cutoff tiles to output.
func PrintSummary(output io.Writer, name string, snapshot *engine.Snapshot) error {
	if _, err := headingColor.Fprintf(output, "%s: %s\n", name, snapshot.Params.Name()); err != nil {
		return err
	}
	labels := snapshot.Summary.Labels()
	if len(labels) == 0 {
		_, err := fmt.Fprintln(output, "  no data")
		return err
	}
	for _, eachLabel := range labels {
		if _, err := labelColor.Fprintf(output, "  %-9s", eachLabel.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(output, " %s\n", eachLabel.Value); err != nil {
			return err
		}
	}
	tiles := snapshot.Classification.Tiles()
	for i, eachColor := range []*color.Color{belowColor, atColor, aboveColor} {
		if _, err := eachColor.Fprintf(output, "  %s\n", tiles[i]); err != nil {
			return err
		}
	}
	return nil
}
