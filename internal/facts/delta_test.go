package facts

import "testing"

func TestComputeDeltaAddsAndRemoves(t *testing.T) {
	prev := Tables{
		Defines: []DefineRow{
			{Name: "Limit", Value: "500", File: "f.ic10", Line: 0},
		},
		Labels: []LabelRow{
			{Name: "start", File: "f.ic10", Line: 1},
		},
	}
	next := Tables{
		Defines: []DefineRow{
			{Name: "Target", Value: "250", File: "f.ic10", Line: 0},
		},
		Labels: []LabelRow{
			{Name: "start", File: "f.ic10", Line: 1},
		},
	}

	delta := ComputeDelta(prev, next)

	if len(delta.Added.Defines) != 1 || delta.Added.Defines[0].Name != "Target" {
		t.Fatalf("expected define Target added, got %+v", delta.Added.Defines)
	}
	if len(delta.Removed.Defines) != 1 || delta.Removed.Defines[0].Name != "Limit" {
		t.Fatalf("expected define Limit removed, got %+v", delta.Removed.Defines)
	}
	if len(delta.Added.Labels) != 0 || len(delta.Removed.Labels) != 0 {
		t.Fatalf("expected unchanged label to produce no delta, got %+v / %+v",
			delta.Added.Labels, delta.Removed.Labels)
	}
}

func TestComputeDeltaDetectsLineMoves(t *testing.T) {
	prev := Tables{
		Labels: []LabelRow{{Name: "loop", File: "f.ic10", Line: 3}},
	}
	next := Tables{
		Labels: []LabelRow{{Name: "loop", File: "f.ic10", Line: 5}},
	}

	delta := ComputeDelta(prev, next)

	if len(delta.Added.Labels) != 1 || delta.Added.Labels[0].Line != 5 {
		t.Fatalf("expected moved label in added set, got %+v", delta.Added.Labels)
	}
	if len(delta.Removed.Labels) != 1 || delta.Removed.Labels[0].Line != 3 {
		t.Fatalf("expected old label position in removed set, got %+v", delta.Removed.Labels)
	}
}
