package scenario

import (
	"context"
	"sync"
	"time"

	"auroguard/internal/logging"
	"auroguard/internal/telemetry"
)

// Relay receives the scripted renderer reports.
type Relay interface {
	OnDebrisCountChange(count int)
	OnCollisionRiskChange(risk telemetry.CollisionRisk, nearby int)
	Statistics() telemetry.Statistics
}

// idlePoll is how often a phase without steps re-checks its triggers.
const idlePoll = time.Second

// Player plays a scenario into a Relay.
type Player struct {
	sc    *Scenario
	relay Relay
	now   func() time.Time

	mu        sync.Mutex
	phase     string
	lastCount int
}

// NewPlayer creates a player starting at the scenario's first phase. sc must
// have passed Validate.
func NewPlayer(sc *Scenario, relay Relay) *Player {
	return &Player{sc: sc, relay: relay, now: time.Now, phase: sc.Phases[0].Name}
}

// Phase returns the name of the current phase.
func (p *Player) Phase() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Play delivers steps until a phase without triggers completes or ctx is done.
func (p *Player) Play(ctx context.Context) error {
	log := logging.FromContext(ctx).With("scenario", p.sc.Name)
	log.Info("scenario started", "phase", p.Phase())

	for {
		ph, _ := p.sc.phase(p.Phase())
		start := p.now()
		next, err := p.playPhase(ctx, ph, start)
		if err != nil {
			return err
		}
		if next == "" {
			log.Info("scenario finished", "phase", ph.Name)
			return nil
		}
		log.Info("scenario phase changed", "from", ph.Name, "to", next)
		p.mu.Lock()
		p.phase = next
		p.mu.Unlock()
	}
}

// playPhase runs ph's steps, repeating them while it has triggers, and
// returns the next phase name or "" when the scenario is over.
func (p *Player) playPhase(ctx context.Context, ph Phase, start time.Time) (string, error) {
	for {
		if len(ph.Steps) == 0 {
			if len(ph.Triggers) == 0 {
				return "", nil
			}
			if err := sleep(ctx, idlePoll); err != nil {
				return "", err
			}
		}
		for _, st := range ph.Steps {
			if err := sleep(ctx, st.After); err != nil {
				return "", err
			}
			p.apply(st)
			if next, ok := p.check(ph.Name, start); ok {
				return next, nil
			}
		}
		if len(ph.Triggers) == 0 {
			return "", nil
		}
		if next, ok := p.check(ph.Name, start); ok {
			return next, nil
		}
	}
}

func (p *Player) apply(st Step) {
	if st.DebrisCount != nil {
		p.relay.OnDebrisCountChange(*st.DebrisCount)
		p.mu.Lock()
		p.lastCount = *st.DebrisCount
		p.mu.Unlock()
	}
	if st.Risk != "" {
		p.relay.OnCollisionRiskChange(st.Risk, st.Nearby)
	}
}

func (p *Player) check(phase string, start time.Time) (string, bool) {
	p.mu.Lock()
	count := p.lastCount
	p.mu.Unlock()
	events := []Event{
		{Type: EventTimeElapsed, Value: int(p.now().Sub(start) / time.Second)},
		{Type: EventDebrisAvoided, Value: p.relay.Statistics().DebrisAvoided},
		{Type: EventDebrisCount, Value: count},
	}
	for _, ev := range events {
		if next, ok := p.sc.NextPhase(phase, ev); ok {
			return next, true
		}
	}
	return "", false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
