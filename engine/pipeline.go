package engine

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/mweagle/goscore/classify"
	"github.com/mweagle/goscore/density"
	"github.com/mweagle/goscore/histogram"
	"github.com/mweagle/goscore/sampler"
	"github.com/mweagle/goscore/stats"
)

// StageID identifies a node in the pipeline graph. The two input nodes carry
// no computation; they exist so that changes can be propagated from them.
type StageID int64

const (
	ParamsInput StageID = iota
	CutoffInput
	SamplerStage
	SummaryStage
	HistogramStage
	DensityStage
	ClassifierStage
)

// Inputs are the upstream values a pipeline evaluation reads from.
type Inputs struct {
	Params sampler.Params
	Cutoff float64
	Source rand.Source
}

// Snapshot is one consistent set of engine outputs. Every field reflects the
// same sample and cutoff. A snapshot is never modified once published.
type Snapshot struct {
	Generation     uint64
	Params         sampler.Params
	Cutoff         float64
	Sample         sampler.Sample
	Summary        *stats.Summary
	Histogram      []histogram.Bin
	Density        []density.Point
	Classification classify.Classification
}

type stageFunc func(inputs *Inputs, next *Snapshot)

// /////////////////////////////////////////////////////////////////////////////
// stageNode
//
// A gonum node wrapping a single pure derivation of the snapshot
//
// /////////////////////////////////////////////////////////////////////////////
type stageNode struct {
	id       StageID
	name     string
	evaluate stageFunc
}

func (sn *stageNode) ID() int64 {
	return int64(sn.id)
}

func (sn *stageNode) DOTID() string {
	return sn.name
}

func evaluateSampler(inputs *Inputs, next *Snapshot) {
	next.Sample = sampler.Generate(inputs.Params, inputs.Source)
	next.Generation++
}

func evaluateSummary(_ *Inputs, next *Snapshot) {
	next.Summary = stats.Summarize(next.Sample)
}

func evaluateHistogram(_ *Inputs, next *Snapshot) {
	next.Histogram = histogram.Build(next.Sample)
}

func evaluateDensity(inputs *Inputs, next *Snapshot) {
	if !next.Summary.HasSpread() {
		next.Density = []density.Point{}
		return
	}
	next.Density = density.Curve(next.Summary.Mean,
		next.Summary.StdDev,
		density.ScaleFactor(len(next.Sample)),
		inputs.Cutoff)
}

func evaluateClassifier(inputs *Inputs, next *Snapshot) {
	next.Classification = classify.Classify(next.Sample, inputs.Cutoff)
}

// /////////////////////////////////////////////////////////////////////////////
// Pipeline
//
// The dependency graph of the engine stages. Edges point from a producer to
// its consumers.
//
// /////////////////////////////////////////////////////////////////////////////
type Pipeline struct {
	graph  *simple.DirectedGraph
	stages map[StageID]*stageNode
	order  []graph.Node
}

// NewPipeline builds the stage graph and resolves its evaluation order.
func NewPipeline() (*Pipeline, error) {
	pipeline := &Pipeline{
		graph:  simple.NewDirectedGraph(),
		stages: make(map[StageID]*stageNode),
	}
	for _, eachStage := range []*stageNode{
		{id: ParamsInput, name: "params"},
		{id: CutoffInput, name: "cutoff"},
		{id: SamplerStage, name: "sampler", evaluate: evaluateSampler},
		{id: SummaryStage, name: "summary", evaluate: evaluateSummary},
		{id: HistogramStage, name: "histogram", evaluate: evaluateHistogram},
		{id: DensityStage, name: "density", evaluate: evaluateDensity},
		{id: ClassifierStage, name: "classifier", evaluate: evaluateClassifier},
	} {
		pipeline.stages[eachStage.id] = eachStage
		pipeline.graph.AddNode(eachStage)
	}
	dependencies := [][2]StageID{
		{ParamsInput, SamplerStage},
		{SamplerStage, SummaryStage},
		{SamplerStage, HistogramStage},
		{SamplerStage, ClassifierStage},
		{SummaryStage, DensityStage},
		{CutoffInput, DensityStage},
		{CutoffInput, ClassifierStage},
	}
	for _, eachEdge := range dependencies {
		pipeline.graph.SetEdge(pipeline.graph.NewEdge(pipeline.stages[eachEdge[0]],
			pipeline.stages[eachEdge[1]]))
	}
	sortedNodes, sortedNodesErr := topo.Sort(pipeline.graph)
	if sortedNodesErr != nil {
		return nil, fmt.Errorf("failed to order pipeline stages: %w", sortedNodesErr)
	}
	pipeline.order = sortedNodes
	return pipeline, nil
}

// Dirty returns the set of stages downstream of (and including) the changed
// stages.
func (p *Pipeline) Dirty(changed ...StageID) map[StageID]bool {
	dirty := make(map[StageID]bool)
	for _, eachChanged := range changed {
		fromNode, fromNodeExists := p.stages[eachChanged]
		if !fromNodeExists {
			continue
		}
		dirty[eachChanged] = true
		walker := traverse.BreadthFirst{
			Visit: func(n graph.Node) {
				dirty[StageID(n.ID())] = true
			},
		}
		walker.Walk(p.graph, fromNode, nil)
	}
	return dirty
}

// Evaluate produces the next snapshot from prev. Only stages downstream of
// the changed inputs are recomputed; the rest are carried over from prev.
// A nil prev evaluates every stage.
func (p *Pipeline) Evaluate(prev *Snapshot,
	inputs *Inputs,
	log *slog.Logger,
	changed ...StageID) *Snapshot {

	next := &Snapshot{}
	if prev != nil {
		*next = *prev
	} else {
		changed = []StageID{ParamsInput, CutoffInput}
	}
	next.Params = inputs.Params
	next.Cutoff = inputs.Cutoff

	dirty := p.Dirty(changed...)
	for _, eachNode := range p.order {
		stage := eachNode.(*stageNode)
		if !dirty[stage.id] || stage.evaluate == nil {
			continue
		}
		log.Debug("Evaluating stage", "stage", stage.name)
		stage.evaluate(inputs, next)
	}
	return next
}

// MarshalDOT encodes the stage graph in DOT format.
func (p *Pipeline) MarshalDOT(name string) ([]byte, error) {
	return dot.Marshal(p.graph, name, "", " ")
}

// validateInputs rejects inputs that would break the snapshot invariants.
func validateInputs(params sampler.Params, cutoff float64) error {
	paramsErr := params.Validate()
	if paramsErr != nil {
		return paramsErr
	}
	return classify.ValidateCutoff(cutoff)
}

// Analyze runs every stage once over freshly generated data.
func Analyze(params sampler.Params, cutoff float64, src rand.Source, log *slog.Logger) (*Snapshot, error) {
	validateErr := validateInputs(params, cutoff)
	if validateErr != nil {
		return nil, validateErr
	}
	pipeline, pipelineErr := NewPipeline()
	if pipelineErr != nil {
		return nil, pipelineErr
	}
	return pipeline.Evaluate(nil, &Inputs{
		Params: params,
		Cutoff: cutoff,
		Source: src,
	}, log), nil
}
