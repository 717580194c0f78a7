package scenario

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"auroguard/internal/telemetry"
)

func TestScenarioTransition(t *testing.T) {
	s := Scenario{
		Phases: []Phase{{
			Name:     "patrol",
			Triggers: []Trigger{{Event: EventTimeElapsed, Value: 10, Next: "encounter"}},
		}, {
			Name: "encounter",
		}},
	}

	next, ok := s.NextPhase("patrol", Event{Type: EventTimeElapsed, Value: 10})
	if !ok || next != "encounter" {
		t.Fatalf("expected transition to encounter, got %s", next)
	}
	if _, ok := s.NextPhase("patrol", Event{Type: EventTimeElapsed, Value: 9}); ok {
		t.Fatalf("transition below threshold")
	}
}

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(sc.Phases))
	}
	st := sc.Phases[0].Steps[0]
	if st.After != time.Millisecond || st.DebrisCount == nil || *st.DebrisCount != 30 {
		t.Fatalf("unexpected first step %+v", st)
	}
	if st.Risk != telemetry.RiskMedium {
		t.Fatalf("risk not normalized: %q", st.Risk)
	}
}

func TestLoadScenarioRejectsUnknownPhase(t *testing.T) {
	_, err := Load("testdata/bad_trigger.yaml")
	if !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	neg := -1
	cases := map[string]Scenario{
		"empty":     {},
		"duplicate": {Phases: []Phase{{Name: "a"}, {Name: "a"}}},
		"bad risk":  {Phases: []Phase{{Name: "a", Steps: []Step{{Risk: "Extreme"}}}}},
		"negative":  {Phases: []Phase{{Name: "a", Steps: []Step{{DebrisCount: &neg}}}}},
		"event":     {Phases: []Phase{{Name: "a", Triggers: []Trigger{{Event: "eta", Next: "a"}}}}},
		"no delay": {Phases: []Phase{{
			Name:     "a",
			Steps:    []Step{{Risk: telemetry.RiskLow}},
			Triggers: []Trigger{{Event: EventTimeElapsed, Value: 1, Next: "a"}},
		}}},
	}
	for name, sc := range cases {
		if err := sc.Validate(); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("%s: expected ErrInvalidScenario, got %v", name, err)
		}
	}
}

func TestBuiltInArcs(t *testing.T) {
	arcs := BuiltIn()
	for _, n := range []string{"debris-storm", "close-pass", "quiet-orbit"} {
		arc, ok := arcs[n]
		if !ok {
			t.Fatalf("arc %s not found", n)
		}
		if arc.Description == "" {
			t.Fatalf("arc %s missing description", n)
		}
		if err := arc.Validate(); err != nil {
			t.Fatalf("arc %s invalid: %v", n, err)
		}
		if arc.Phases[0].Name != "setup" || arc.Phases[len(arc.Phases)-1].Name != "resolution" {
			t.Fatalf("arc %s should run from setup to resolution", n)
		}
	}
}

func TestResolve(t *testing.T) {
	sc, err := Resolve("close-pass")
	require.NoError(t, err)
	assert.Equal(t, "Close Pass", sc.Name)

	sc, err = Resolve("testdata/simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "example", sc.Name)

	_, err = Resolve("no-such-arc")
	assert.Error(t, err)
}

// fakeRelay counts avoided reports the way an active autopilot would.
type fakeRelay struct {
	mu      sync.Mutex
	counts  []int
	risks   []telemetry.CollisionRisk
	avoided int
}

func (f *fakeRelay) OnDebrisCountChange(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = append(f.counts, n)
}

func (f *fakeRelay) OnCollisionRiskChange(r telemetry.CollisionRisk, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.risks = append(f.risks, r)
	if r.Avoidable() {
		f.avoided++
	}
}

func (f *fakeRelay) Statistics() telemetry.Statistics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return telemetry.Statistics{DebrisAvoided: f.avoided}
}

func TestPlayerRunsToCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)
	sc, err := Load("testdata/simple.yaml")
	require.NoError(t, err)
	relay := &fakeRelay{}
	p := NewPlayer(sc, relay)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Play(ctx))

	assert.Equal(t, "clear", p.Phase())
	assert.Equal(t, []int{30, 20}, relay.counts)
	assert.Equal(t, []telemetry.CollisionRisk{telemetry.RiskMedium, telemetry.RiskHigh, telemetry.RiskLow}, relay.risks)
}

func TestPlayerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	sc := &Scenario{Phases: []Phase{{
		Name:     "loop",
		Steps:    []Step{{After: 5 * time.Millisecond, Risk: telemetry.RiskLow}},
		Triggers: []Trigger{{Event: EventDebrisAvoided, Value: 1, Next: "loop"}},
	}}}
	require.NoError(t, sc.Validate())
	p := NewPlayer(sc, &fakeRelay{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := p.Play(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
