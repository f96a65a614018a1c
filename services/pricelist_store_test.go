package services

import (
	"encoding/json"
	"sync"
	"testing"

	"truckwash/testhelpers"
)

func TestMergePriceListJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, pl PriceList)
	}{
		{"empty blob", "", false, func(t *testing.T, pl PriceList) {
			if pl != DefaultPriceList() {
				t.Error("empty blob should yield defaults")
			}
		}},
		{"partial leaf keeps other defaults", `{"articulatedUnit":{"tractorExterior":700}}`, false, func(t *testing.T, pl PriceList) {
			if pl.ArticulatedUnit.TractorExterior != 700 {
				t.Errorf("tractorExterior = %v", pl.ArticulatedUnit.TractorExterior)
			}
			if pl.ArticulatedUnit.TractorInterior != 350 || pl.ArticulatedUnit.Trailers.CajaGanadera != 1550 {
				t.Error("missing leaves should keep defaults")
			}
		}},
		{"older blob without light vehicles", `{"rigidTruck":{"torton":{"exteriorPrice":900}}}`, false, func(t *testing.T, pl PriceList) {
			if pl.RigidTruck.Torton.Exterior != 900 || pl.RigidTruck.Torton.Engine != 450 {
				t.Errorf("torton = %+v", pl.RigidTruck.Torton)
			}
			if pl.LightVehicle != DefaultPriceList().LightVehicle {
				t.Error("light vehicle should be defaults")
			}
		}},
		{"one damaged category", `{"rigidTruck":"oops","lightVehicle":{"aLaCarta":{"lavadoMotor":450}}}`, true, func(t *testing.T, pl PriceList) {
			if pl.RigidTruck != DefaultPriceList().RigidTruck {
				t.Error("damaged category should fall back to defaults")
			}
			if pl.LightVehicle.ALaCarte.EngineWash != 450 {
				t.Error("healthy category should still merge")
			}
		}},
		{"malformed json", `{not json`, true, func(t *testing.T, pl PriceList) {
			if pl != DefaultPriceList() {
				t.Error("malformed blob should yield defaults")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl, err := MergePriceListJSON([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			tt.check(t, pl)
		})
	}
}

func TestPriceListStore_SaveLoadReset(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if got := LoadPriceList(app); got != DefaultPriceList() {
		t.Fatal("no stored list should load defaults")
	}

	pl := DefaultPriceList()
	if err := pl.SetTrailerPrice(TrailerPipaEstandar, 1200); err != nil {
		t.Fatal(err)
	}
	if err := SavePriceList(app, pl); err != nil {
		t.Fatalf("SavePriceList: %v", err)
	}
	if got := LoadPriceList(app); got.ArticulatedUnit.Trailers.PipaEstandar != 1200 {
		t.Errorf("loaded pipaEstandar = %v, want 1200", got.ArticulatedUnit.Trailers.PipaEstandar)
	}

	// second save replaces the same row
	pl.ArticulatedUnit.Trailers.PipaEstandar = 1300
	if err := SavePriceList(app, pl); err != nil {
		t.Fatal(err)
	}
	col, _ := app.FindCollectionByNameOrId("app_settings")
	rows, _ := app.FindAllRecords(col)
	if len(rows) != 1 {
		t.Errorf("expected 1 settings row, got %d", len(rows))
	}

	if err := ResetPriceList(app); err != nil {
		t.Fatalf("ResetPriceList: %v", err)
	}
	if got := LoadPriceList(app); got != DefaultPriceList() {
		t.Error("after reset defaults should load")
	}
	if err := ResetPriceList(app); err != nil {
		t.Errorf("reset with nothing stored should be a no-op, got %v", err)
	}
}

func TestPriceListStore_RejectsInvalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	pl := DefaultPriceList()
	pl.LightVehicle.ALaCarte.LeatherCleaning = -1
	if err := SavePriceList(app, pl); err == nil {
		t.Error("expected invalid list to be rejected")
	}
}

func TestPriceListStore_CorruptFallsBack(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("app_settings")
	rec := newSettingRecord(col, PriceListKey, json.RawMessage(`{"articulatedUnit":{"tractorExterior":"mucho"}}`))
	if err := app.Save(rec); err != nil {
		t.Fatalf("save corrupt setting: %v", err)
	}
	got := LoadPriceList(app)
	if got.ArticulatedUnit != DefaultPriceList().ArticulatedUnit {
		t.Errorf("corrupt category should fall back, got %+v", got.ArticulatedUnit)
	}
}

func TestPriceBook_Update(t *testing.T) {
	book := NewPriceBook(DefaultPriceList())
	before := book.Current()

	_, err := book.Update(func(p *PriceList) error { return p.SetTractorExterior(-5) }, nil)
	if err == nil {
		t.Fatal("expected setter error")
	}
	if book.Current() != before {
		t.Error("failed edit must not change the book")
	}

	snapshot := book.Current()
	next, err := book.Update(func(p *PriceList) error { return p.SetTractorExterior(700) }, nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.ArticulatedUnit.TractorExterior != 700 || book.Current().ArticulatedUnit.TractorExterior != 700 {
		t.Error("update not applied")
	}
	if snapshot.ArticulatedUnit.TractorExterior != 650 {
		t.Error("earlier snapshots must not change")
	}
}

func TestPriceBook_ConcurrentReaders(t *testing.T) {
	book := NewPriceBook(DefaultPriceList())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					book.Update(func(p *PriceList) error { return p.SetTractorInterior(float64(j)) }, nil)
					continue
				}
				_ = ComputeQuotation(articulatedSelection(), book.Current(), CategoryArticulated)
			}
		}(i)
	}
	wg.Wait()
}
