package engine

import (
	"log/slog"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/mweagle/goscore/classify"
	"github.com/mweagle/goscore/sampler"
)

// Session is the mutable application state around the stateless pipeline:
// the current parameters, cutoff, random source and the last published
// snapshot. Readers always observe a complete snapshot.
type Session struct {
	mu       sync.RWMutex
	pipeline *Pipeline
	inputs   Inputs
	snapshot *Snapshot
	log      *slog.Logger
}

// NewSession validates params and evaluates the initial snapshot. The seed
// makes the sequence of generated samples reproducible.
func NewSession(params sampler.Params, cutoff float64, seed uint64, log *slog.Logger) (*Session, error) {
	validateErr := validateInputs(params, cutoff)
	if validateErr != nil {
		return nil, validateErr
	}
	pipeline, pipelineErr := NewPipeline()
	if pipelineErr != nil {
		return nil, pipelineErr
	}
	session := &Session{
		pipeline: pipeline,
		inputs: Inputs{
			Params: params,
			Cutoff: cutoff,
			Source: rand.NewSource(seed),
		},
		log: log,
	}
	session.snapshot = pipeline.Evaluate(nil, &session.inputs, log)
	log.Debug("Session created", "params", params.Name(), "cutoff", cutoff, "seed", seed)
	return session, nil
}

// Snapshot returns the current published snapshot.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Pipeline returns the stage graph the session evaluates.
func (s *Session) Pipeline() *Pipeline {
	return s.pipeline
}

// SetParams replaces the distribution parameters and regenerates the sample.
// Parameters equal to the current ones leave the snapshot untouched.
func (s *Session) SetParams(params sampler.Params) (*Snapshot, error) {
	validateErr := params.Validate()
	if validateErr != nil {
		return nil, validateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if params == s.inputs.Params {
		s.log.Debug("Parameters unchanged", "params", params.Name())
		return s.snapshot, nil
	}
	s.inputs.Params = params
	return s.publish(ParamsInput), nil
}

// SetCutoff reclassifies the current sample against a new cutoff. The sample
// itself is kept. A non-finite cutoff is rejected.
func (s *Session) SetCutoff(cutoff float64) (*Snapshot, error) {
	validateErr := classify.ValidateCutoff(cutoff)
	if validateErr != nil {
		return nil, validateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cutoff == s.inputs.Cutoff {
		s.log.Debug("Cutoff unchanged", "cutoff", cutoff)
		return s.snapshot, nil
	}
	s.inputs.Cutoff = cutoff
	return s.publish(CutoffInput), nil
}

// Update applies new parameters and cutoff together, publishing a single
// snapshot. Unchanged inputs are not recomputed.
func (s *Session) Update(params sampler.Params, cutoff float64) (*Snapshot, error) {
	validateErr := validateInputs(params, cutoff)
	if validateErr != nil {
		return nil, validateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := make([]StageID, 0, 2)
	if params != s.inputs.Params {
		changed = append(changed, ParamsInput)
	}
	if cutoff != s.inputs.Cutoff {
		changed = append(changed, CutoffInput)
	}
	if len(changed) == 0 {
		return s.snapshot, nil
	}
	s.inputs.Params = params
	s.inputs.Cutoff = cutoff
	return s.publish(changed...), nil
}

// Regenerate draws a new sample with the current parameters.
func (s *Session) Regenerate() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publish(ParamsInput)
}

// publish must be called with the write lock held.
func (s *Session) publish(changed ...StageID) *Snapshot {
	next := s.pipeline.Evaluate(s.snapshot, &s.inputs, s.log, changed...)
	s.snapshot = next
	s.log.Debug("Published snapshot",
		"generation", next.Generation,
		"count", len(next.Sample),
		"cutoff", next.Cutoff)
	return next
}
