package app

import (
	"context"
	"log/slog"
	"os"

	"oss.terrastruct.com/d2/d2exporter"
	"oss.terrastruct.com/d2/d2layouts/d2elklayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// renderD2SVG lays out the D2 source and writes the SVG to outputFile.
func renderD2SVG(ctx context.Context,
	d2Source string,
	outputFile string,
	lightTheme int64,
	darkTheme int64,
	log *slog.Logger) error {
	log.Info("Rendering report", "path", outputFile)

	_, config, configErr := d2lib.Compile(ctx, d2Source, nil, nil)
	if configErr != nil {
		return configErr
	}
	applyErr := config.ApplyTheme(d2themescatalog.ColorblindClear.ID)
	if applyErr != nil {
		return applyErr
	}
	ruler, rulerErr := textmeasure.NewRuler()
	if rulerErr != nil {
		return rulerErr
	}
	dimErr := config.SetDimensions(nil, ruler, nil)
	if dimErr != nil {
		return dimErr
	}
	layoutErr := d2elklayout.Layout(ctx, config, nil)
	if layoutErr != nil {
		return layoutErr
	}
	diagram, diagramErr := d2exporter.Export(ctx, config, nil)
	if diagramErr != nil {
		return diagramErr
	}
	sketch := false
	padding := int64(50)
	render, renderErr := d2svg.Render(diagram, &d2svg.RenderOpts{
		ThemeID:     &lightTheme,
		Sketch:      &sketch,
		DarkThemeID: &darkTheme,
		Pad:         &padding,
	})
	if renderErr != nil {
		return renderErr
	}
	return os.WriteFile(outputFile, render, 0600)
}
