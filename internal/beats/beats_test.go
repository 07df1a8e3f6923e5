package beats

import (
	"math"
	"testing"

	"github.com/ivlev/reelforge/internal/director"
)

func TestSchedule(t *testing.T) {
	overlays := Schedule([]int{60, 120, 240}, []string{"a", "b"})

	want := []Overlay{
		{Index: 0, Window: director.Window{Start: 60, Length: 14}, Source: "a"},
		{Index: 1, Window: director.Window{Start: 120, Length: 15}, Source: "b"},
		{Index: 2, Window: director.Window{Start: 240, Length: 16}, Source: "a"},
	}

	if len(overlays) != len(want) {
		t.Fatalf("expected %d overlays, got %d", len(want), len(overlays))
	}
	for i := range want {
		if overlays[i] != want[i] {
			t.Errorf("overlay %d: expected %+v, got %+v", i, want[i], overlays[i])
		}
	}
}

func TestScheduleLengthCycle(t *testing.T) {
	frames := make([]int, 9)
	overlays := Schedule(frames, []string{"x"})

	want := []int{14, 15, 16, 17, 14, 15, 16, 17, 14}
	for i, o := range overlays {
		if o.Window.Length != want[i] {
			t.Errorf("beat %d: expected length %d, got %d", i, want[i], o.Window.Length)
		}
	}
}

func TestScheduleKeepsInputOrder(t *testing.T) {
	overlays := Schedule([]int{300, 100, 200}, []string{"a", "b", "c"})

	if overlays[0].Window.Start != 300 || overlays[0].Source != "a" {
		t.Errorf("first overlay must follow input order, got %+v", overlays[0])
	}
	if overlays[1].Window.Start != 100 || overlays[1].Window.Length != 15 || overlays[1].Source != "b" {
		t.Errorf("second overlay must follow input order, got %+v", overlays[1])
	}
}

func TestScheduleWithoutSources(t *testing.T) {
	overlays := Schedule([]int{10, 40}, nil)

	if len(overlays) != 2 {
		t.Fatalf("empty slots must still be scheduled, got %d", len(overlays))
	}
	for _, o := range overlays {
		if !o.Empty || o.Source != "" {
			t.Errorf("expected empty slot, got %+v", o)
		}
	}
}

func TestActiveAtStacksOverlaps(t *testing.T) {
	overlays := Schedule([]int{100, 105, 200}, []string{"a", "b"})

	active := ActiveAt(overlays, 110)
	if len(active) != 2 {
		t.Fatalf("expected two stacked overlays, got %+v", active)
	}
	if active[0].Index != 0 || active[1].Index != 1 {
		t.Errorf("expected list order, got %d then %d", active[0].Index, active[1].Index)
	}

	if got := ActiveAt(overlays, 114); len(got) != 1 || got[0].Index != 1 {
		t.Errorf("frame 114 is past beat 0's 14-frame window: %+v", got)
	}
	if got := ActiveAt(overlays, 150); len(got) != 0 {
		t.Errorf("expected nothing active at 150, got %+v", got)
	}
}

func TestPunchInAt(t *testing.T) {
	o := Schedule([]int{50}, []string{"a"})[0]

	first, err := PunchInAt(o, 50)
	if err != nil {
		t.Fatalf("PunchInAt failed: %v", err)
	}
	if first.Scale != PunchScale || first.LocalFrame != 0 {
		t.Errorf("unexpected first frame transform: %+v", first)
	}

	last, err := PunchInAt(o, 63)
	if err != nil {
		t.Fatalf("PunchInAt failed: %v", err)
	}
	if math.Abs(last.Scale-1) > 1e-9 {
		t.Errorf("expected scale to settle at 1, got %v", last.Scale)
	}

	prev := first.Scale
	for f := 51; f <= 63; f++ {
		p, _ := PunchInAt(o, f)
		if p.Scale > prev {
			t.Errorf("frame %d: scale grew from %v to %v", f, prev, p.Scale)
		}
		prev = p.Scale
	}
}
