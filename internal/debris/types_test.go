package debris

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordEvictsOldestFirst(t *testing.T) {
	d := InitialDashboard()
	for i := 1; i <= 25; i++ {
		d.Record(i, DefaultHistoryCapacity)
		if len(d.DetectionHistory) > DefaultHistoryCapacity {
			t.Fatalf("history length %d exceeds capacity", len(d.DetectionHistory))
		}
	}
	want := make([]int, 0, DefaultHistoryCapacity)
	for i := 6; i <= 25; i++ {
		want = append(want, i)
	}
	if diff := cmp.Diff(want, d.DetectionHistory); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if d.Count != 25 {
		t.Fatalf("count=%d, want 25", d.Count)
	}
}

func TestRecordKeepsInitialEntryUntilFull(t *testing.T) {
	d := InitialDashboard()
	d.Record(30, 3)
	d.Record(31, 3)
	if diff := cmp.Diff([]int{0, 30, 31}, d.DetectionHistory); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	d.Record(32, 3)
	if diff := cmp.Diff([]int{30, 31, 32}, d.DetectionHistory); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := InitialDashboard()
	c := d.Clone()
	c.DetectionHistory[0] = 99
	if d.DetectionHistory[0] != 0 {
		t.Fatalf("clone shares history with original")
	}
}
