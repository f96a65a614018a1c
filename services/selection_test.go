package services

import "testing"

func TestResizeTrailers_PreservesByPosition(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(3)
	sel.Trailers[0].Type = TrailerCajaGrande
	sel.Trailers[1].Type = TrailerPipaChica
	ids := []int{sel.Trailers[0].ID, sel.Trailers[1].ID}

	sel.ResizeTrailers(2)
	if len(sel.Trailers) != 2 {
		t.Fatalf("len = %d, want 2", len(sel.Trailers))
	}
	sel.ResizeTrailers(4)
	if len(sel.Trailers) != 4 {
		t.Fatalf("len = %d, want 4", len(sel.Trailers))
	}

	if sel.Trailers[0].Type != TrailerCajaGrande || sel.Trailers[1].Type != TrailerPipaChica {
		t.Errorf("types not preserved: %+v", sel.Trailers)
	}
	if sel.Trailers[0].ID != ids[0] || sel.Trailers[1].ID != ids[1] {
		t.Errorf("ids not preserved: %+v", sel.Trailers)
	}
	if sel.Trailers[2].Type != TrailerNone || sel.Trailers[3].Type != TrailerNone {
		t.Errorf("new trailers should be untyped: %+v", sel.Trailers)
	}
}

func TestResizeTrailers_IDsNeverReused(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(2)
	sel.ResizeTrailers(1)
	sel.ResizeTrailers(2)

	if sel.Trailers[1].ID == 1 {
		t.Errorf("id 1 was reused after shrink: %+v", sel.Trailers)
	}
	seen := map[int]bool{}
	for _, tr := range sel.Trailers {
		if seen[tr.ID] {
			t.Fatalf("duplicate id %d", tr.ID)
		}
		seen[tr.ID] = true
	}
}

func TestResizeTrailers_ShrinkDoesNotAliasOldBacking(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(2)
	sel.Trailers[1].Type = TrailerPlataforma
	sel.ResizeTrailers(1)
	sel.ResizeTrailers(2)
	if sel.Trailers[1].Type != TrailerNone {
		t.Errorf("regrown trailer inherited old type %q", sel.Trailers[1].Type)
	}
}

func TestResizeTrailers_NegativeClampsToZero(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(2)
	sel.ResizeTrailers(-1)
	if len(sel.Trailers) != 0 {
		t.Errorf("len = %d, want 0", len(sel.Trailers))
	}
}

func TestSetTrailerType(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(2)
	if !sel.SetTrailerType(sel.Trailers[1].ID, TrailerCajaChica) {
		t.Fatal("expected trailer to be found")
	}
	if sel.Trailers[1].Type != TrailerCajaChica {
		t.Errorf("type = %q", sel.Trailers[1].Type)
	}
	if sel.SetTrailerType(999, TrailerCajaChica) {
		t.Error("unknown id should report false")
	}
}

func TestSetTractorService_ClearsPackage(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.SetVehiclePackage(true)
	if !sel.Tractor.Complete() {
		t.Fatal("package should force both tractor sides on")
	}

	sel.SetTractorService(TractorInterior, false)
	if sel.VehiclePackage {
		t.Error("turning a side off should clear the vehicle package")
	}
	if !sel.Tractor.Exterior || sel.Tractor.Interior {
		t.Errorf("tractor = %+v", sel.Tractor)
	}

	sel.SetTractorService(TractorInterior, true)
	if sel.VehiclePackage {
		t.Error("turning a side on should not re-enable the package")
	}
}

func TestSetVehiclePackage_OffKeepsTractor(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.SetVehiclePackage(true)
	sel.SetVehiclePackage(false)
	if !sel.Tractor.Complete() {
		t.Error("switching the package off should leave the tractor sides alone")
	}
}

func TestTrailerComposition(t *testing.T) {
	tests := []struct {
		name  string
		types []TrailerType
		want  string
	}{
		{"no trailers", nil, ""},
		{"one untyped", []TrailerType{TrailerNone}, "-"},
		{"two typed", []TrailerType{TrailerCajaEstandar, TrailerPipaChica}, "cajaEstandar,pipaChica"},
		{"mixed", []TrailerType{TrailerNone, TrailerPlataforma}, "-,plataforma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection(CategoryArticulated)
			sel.ResizeTrailers(len(tt.types))
			for i, ty := range tt.types {
				sel.Trailers[i].Type = ty
			}
			if got := sel.TrailerComposition(); got != tt.want {
				t.Errorf("TrailerComposition() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClone_IndependentTrailers(t *testing.T) {
	sel := NewSelection(CategoryArticulated)
	sel.ResizeTrailers(1)
	c := sel.Clone()
	c.Trailers[0].Type = TrailerCajaGanadera
	if sel.Trailers[0].Type != TrailerNone {
		t.Error("clone shares trailer storage with original")
	}
}
