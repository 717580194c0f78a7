package debris

import (
	"time"

	"auroguard/internal/telemetry"
)

// Composition is the material class of tracked debris.
type Composition string

const (
	Metallic  Composition = "Metallic"
	Composite Composition = "Composite"
	Unknown   Composition = "Unknown"
	Mixed     Composition = "Mixed"
)

// Compositions lists every class in draw order.
var Compositions = []Composition{Metallic, Composite, Unknown, Mixed}

// Descriptor holds the physical properties of the closest tracked object.
type Descriptor struct {
	Velocity    float64     `json:"velocity"` // km/s
	Weight      float64     `json:"weight"`   // kg
	Size        float64     `json:"size"`     // m
	Composition Composition `json:"composition"`
}

// DefaultHistoryCapacity bounds the detection history.
const DefaultHistoryCapacity = 20

// Dashboard is the debris panel's view of the field.
type Dashboard struct {
	Count  int                     `json:"count"`
	Nearby int                     `json:"nearby"`
	Risk   telemetry.CollisionRisk `json:"risk"`
	Descriptor
	DetectionHistory []int `json:"detection_history"`
}

// InitialDashboard mirrors the initial telemetry snapshot.
func InitialDashboard() Dashboard {
	return Dashboard{
		Count:  telemetry.InitialDebrisCount,
		Nearby: 0,
		Risk:   telemetry.RiskLow,
		Descriptor: Descriptor{
			Velocity:    2.5,
			Weight:      120,
			Size:        1.8,
			Composition: Mixed,
		},
		DetectionHistory: []int{0},
	}
}

// Record stores a new debris count and appends it to the history,
// evicting the oldest entries beyond capacity.
func (d *Dashboard) Record(count, capacity int) {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	d.Count = count
	d.DetectionHistory = append(d.DetectionHistory, count)
	if over := len(d.DetectionHistory) - capacity; over > 0 {
		d.DetectionHistory = append(d.DetectionHistory[:0:0], d.DetectionHistory[over:]...)
	}
}

// Clone returns a copy that shares no memory with d.
func (d Dashboard) Clone() Dashboard {
	d.DetectionHistory = append([]int(nil), d.DetectionHistory...)
	return d
}

// Event kinds reported by the renderer.
const (
	EventCount = "count"
	EventRisk  = "risk"
)

// EventRow records one relay callback from the debris renderer.
type EventRow struct {
	ID            string                  `json:"id"`
	CraftID       string                  `json:"craft_id"`
	Kind          string                  `json:"kind"`
	DebrisCount   int                     `json:"debris_count"`
	NearbyObjects int                     `json:"nearby_objects"`
	Risk          telemetry.CollisionRisk `json:"risk,omitempty"`
	Warning       bool                    `json:"warning"`
	DebrisAvoided int                     `json:"debris_avoided"`
	Timestamp     time.Time               `json:"ts"`
}
