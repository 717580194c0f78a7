package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"auroguard/internal/telemetry"
)

// Scenario scripts the debris renderer's reports as ordered phases.
type Scenario struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Phases      []Phase `yaml:"phases"`
}

// Phase is a stage of the encounter. Its steps repeat until a trigger moves
// the scenario on; a phase without triggers ends the scenario after one pass.
type Phase struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Steps       []Step    `yaml:"steps,omitempty"`
	Triggers    []Trigger `yaml:"triggers,omitempty"`
}

// Step is one renderer report, delivered After the previous step.
type Step struct {
	After       time.Duration           `yaml:"after"`
	DebrisCount *int                    `yaml:"debris_count,omitempty"`
	Risk        telemetry.CollisionRisk `yaml:"risk,omitempty"`
	Nearby      int                     `yaml:"nearby,omitempty"`
}

// Trigger moves the scenario to another phase based on an event.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event types a trigger can react to.
const (
	EventTimeElapsed   = "time_elapsed"   // seconds spent in the phase
	EventDebrisAvoided = "debris_avoided" // run total
	EventDebrisCount   = "debris_count"   // last reported count
)

// Event represents a runtime occurrence that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// ErrInvalidScenario is returned by Validate.
var ErrInvalidScenario = errors.New("invalid scenario")

// Load reads and validates a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve returns the built-in arc called name, or loads name as a file.
func Resolve(name string) (*Scenario, error) {
	if arc, ok := BuiltIn()[name]; ok {
		return &arc, nil
	}
	return Load(name)
}

// Validate checks phase names, trigger targets and step values, and
// normalizes risk labels.
func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidScenario)
	}
	names := make(map[string]bool, len(s.Phases))
	for _, p := range s.Phases {
		if p.Name == "" {
			return fmt.Errorf("%w: phase without name", ErrInvalidScenario)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: duplicate phase %q", ErrInvalidScenario, p.Name)
		}
		names[p.Name] = true
	}
	for i := range s.Phases {
		p := &s.Phases[i]
		for j := range p.Steps {
			st := &p.Steps[j]
			if st.After < 0 {
				return fmt.Errorf("%w: phase %q step %d: negative delay", ErrInvalidScenario, p.Name, j)
			}
			if st.DebrisCount != nil && *st.DebrisCount < 0 {
				return fmt.Errorf("%w: phase %q step %d: negative debris count", ErrInvalidScenario, p.Name, j)
			}
			if st.Nearby < 0 {
				return fmt.Errorf("%w: phase %q step %d: negative nearby", ErrInvalidScenario, p.Name, j)
			}
			if st.Risk != "" {
				risk, err := telemetry.ParseCollisionRisk(string(st.Risk))
				if err != nil {
					return fmt.Errorf("%w: phase %q step %d: %w", ErrInvalidScenario, p.Name, j, err)
				}
				st.Risk = risk
			}
		}
		var total time.Duration
		for _, st := range p.Steps {
			total += st.After
		}
		if len(p.Triggers) > 0 && len(p.Steps) > 0 && total == 0 {
			return fmt.Errorf("%w: phase %q repeats without delay", ErrInvalidScenario, p.Name)
		}
		for _, tr := range p.Triggers {
			switch tr.Event {
			case EventTimeElapsed, EventDebrisAvoided, EventDebrisCount:
			default:
				return fmt.Errorf("%w: phase %q: unknown trigger event %q", ErrInvalidScenario, p.Name, tr.Event)
			}
			if !names[tr.Next] {
				return fmt.Errorf("%w: phase %q: trigger targets unknown phase %q", ErrInvalidScenario, p.Name, tr.Next)
			}
		}
	}
	return nil
}

// phase returns the phase called name.
func (s *Scenario) phase(name string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}
