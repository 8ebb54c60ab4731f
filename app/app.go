package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mweagle/goscore/definition"
	"github.com/mweagle/goscore/engine"
)

// ApplicationParams are the command line options for a run.
type ApplicationParams struct {
	InputFile       string
	OutputDirectory string
	CreateDot       bool
	CreateSVG       bool
	LightThemeID    int64
	DarkThemeID     int64
	Watch           bool
	Console         io.Writer
}

// Outputs are the files written for a single snapshot.
type Outputs struct {
	ChartPath string
	D2Path    string
	SVGPath   string
	DotPath   string
}

// Application owns the session for a definition file and renders every
// snapshot it publishes.
type Application struct {
	params     *ApplicationParams
	session    *engine.Session
	definition *definition.Definition
	baseName   string
	renderLock sync.Mutex // guards session, definition and the output files
	log        *slog.Logger
}

// NewApplication loads the definition and evaluates its first snapshot.
func NewApplication(params *ApplicationParams, log *slog.Logger) (*Application, error) {
	def, defErr := definition.Load(params.InputFile)
	if defErr != nil {
		return nil, defErr
	}
	session, sessionErr := engine.NewSession(def.Params, def.Cutoff, def.Seed, log)
	if sessionErr != nil {
		return nil, sessionErr
	}
	outputFileName := filepath.Base(params.InputFile)
	return &Application{
		params:     params,
		session:    session,
		definition: def,
		baseName:   strings.TrimSuffix(outputFileName, filepath.Ext(outputFileName)),
		log:        log,
	}, nil
}

// Session returns the application's engine session.
func (a *Application) Session() *engine.Session {
	a.renderLock.Lock()
	defer a.renderLock.Unlock()
	return a.session
}

// Apply feeds a reloaded definition into the session. A new seed starts a
// new session; otherwise only the changed inputs are recomputed.
func (a *Application) Apply(def *definition.Definition) (*engine.Snapshot, error) {
	a.renderLock.Lock()
	defer a.renderLock.Unlock()

	if def.Seed != a.definition.Seed {
		session, sessionErr := engine.NewSession(def.Params, def.Cutoff, def.Seed, a.log)
		if sessionErr != nil {
			return nil, sessionErr
		}
		a.session = session
		a.definition = def
		return session.Snapshot(), nil
	}
	snapshot, updateErr := a.session.Update(def.Params, def.Cutoff)
	if updateErr != nil {
		return nil, updateErr
	}
	a.definition = def
	return snapshot, nil
}

// Render writes every output for snapshot into the output directory.
func (a *Application) Render(ctx context.Context, snapshot *engine.Snapshot) (*Outputs, error) {
	a.renderLock.Lock()
	defer a.renderLock.Unlock()

	outputs := &Outputs{
		ChartPath: filepath.Join(a.params.OutputDirectory, a.baseName+".png"),
		D2Path:    filepath.Join(a.params.OutputDirectory, a.baseName+".d2"),
	}
	if a.params.CreateDot {
		outputs.DotPath = filepath.Join(a.params.OutputDirectory, a.baseName+".dot")
		dotBytes, dotBytesErr := a.session.Pipeline().MarshalDOT(a.definition.Name)
		if dotBytesErr != nil {
			return nil, dotBytesErr
		}
		writeErr := os.WriteFile(outputs.DotPath, dotBytes, 0644)
		if writeErr != nil {
			return nil, writeErr
		}
		a.log.Info("Created dot output file", "path", outputs.DotPath)
	}

	plotErr := PlotChart(snapshot, a.definition.Name, outputs.ChartPath, a.log)
	if plotErr != nil {
		return nil, plotErr
	}
	a.log.Info("Created chart", "path", outputs.ChartPath)

	d2Source, encodeErr := EncodeReport(a.definition.Name, outputs.ChartPath, snapshot, a.log)
	if encodeErr != nil {
		return nil, encodeErr
	}
	writeErr := os.WriteFile(outputs.D2Path, []byte(d2Source), 0644)
	if writeErr != nil {
		return nil, writeErr
	}
	if a.params.CreateSVG {
		outputs.SVGPath = filepath.Join(a.params.OutputDirectory, a.baseName+".svg")
		svgErr := renderD2SVG(ctx,
			d2Source,
			outputs.SVGPath,
			a.params.LightThemeID,
			a.params.DarkThemeID,
			a.log)
		if svgErr != nil {
			return nil, svgErr
		}
	}
	if a.params.Console != nil && a.definition.Console {
		printErr := PrintSummary(a.params.Console, a.definition.Name, snapshot)
		if printErr != nil {
			return nil, printErr
		}
	}
	return outputs, nil
}

// Run renders the initial snapshot and, in watch mode, re-renders every time
// the definition file changes until ctx is cancelled.
func (a *Application) Run(ctx context.Context) (*Outputs, error) {
	outputs, renderErr := a.Render(ctx, a.Session().Snapshot())
	if renderErr != nil {
		return nil, renderErr
	}
	if !a.params.Watch {
		return outputs, nil
	}
	watchErr := definition.Watch(ctx, a.params.InputFile, func(def *definition.Definition) {
		snapshot, applyErr := a.Apply(def)
		if applyErr != nil {
			a.log.Error("Failed to apply definition", "error", applyErr)
			return
		}
		_, renderErr := a.Render(ctx, snapshot)
		if renderErr != nil {
			a.log.Error("Failed to render snapshot", "error", renderErr)
		}
	}, a.log)
	return outputs, watchErr
}
