package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; it is used to assert the Recorder contract from
// this package's tests.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	outputBytes    map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
		outputBytes:    map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) ObserveBuildDuration(_ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}

func (t *testRecorder) ObserveOutputBytes(target string, kind OutputKind, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outputBytes[target+"/"+string(kind)] = n
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
