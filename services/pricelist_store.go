package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// PriceListKey is the app_settings key holding the operator's price list.
const PriceListKey = "price_list"

// MergePriceListJSON overlays a stored price-list blob onto the defaults.
// Each top-level category is decoded on its own so that a damaged or older
// category falls back to defaults without affecting the others, and leaves
// missing from the blob keep their default value. The returned error lists
// the categories that could not be decoded.
func MergePriceListJSON(raw []byte) (PriceList, error) {
	out := DefaultPriceList()
	if len(raw) == 0 {
		return out, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return out, fmt.Errorf("price list: %w", err)
	}

	var errs []error
	merge := func(key string, dst any, reset func()) {
		part, ok := top[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(part, dst); err != nil {
			reset()
			errs = append(errs, fmt.Errorf("price list %s: %w", key, err))
		}
	}
	def := DefaultPriceList()
	merge("articulatedUnit", &out.ArticulatedUnit, func() { out.ArticulatedUnit = def.ArticulatedUnit })
	merge("rigidTruck", &out.RigidTruck, func() { out.RigidTruck = def.RigidTruck })
	merge("lightVehicle", &out.LightVehicle, func() { out.LightVehicle = def.LightVehicle })

	return out, errors.Join(errs...)
}

func findSetting(app *pocketbase.PocketBase, key string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByData("app_settings", "key", key)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find setting %s: %w", key, err)
	}
	return rec, nil
}

// LoadPriceList reads the stored price list merged onto defaults. Missing or
// damaged data never fails the load: it is logged and defaults are used.
func LoadPriceList(app *pocketbase.PocketBase) PriceList {
	rec, err := findSetting(app, PriceListKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("pricelist: load failed, using defaults: %v", err)
		}
		return DefaultPriceList()
	}

	raw := rec.GetString("value")
	if raw == "null" {
		raw = ""
	}
	pl, err := MergePriceListJSON([]byte(raw))
	if err != nil {
		log.Printf("pricelist: stored value partly unreadable, defaults substituted: %v", err)
	}
	return pl
}

// SavePriceList replaces the stored price list wholesale.
func SavePriceList(app *pocketbase.PocketBase, pl PriceList) error {
	if err := pl.Validate(); err != nil {
		return err
	}

	rec, err := findSetting(app, PriceListKey)
	if errors.Is(err, ErrNotFound) {
		col, cerr := app.FindCollectionByNameOrId("app_settings")
		if cerr != nil {
			return fmt.Errorf("app_settings collection: %w", cerr)
		}
		rec = newSettingRecord(col, PriceListKey, pl)
	} else if err != nil {
		return err
	}

	rec.Set("value", pl)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save price list: %w", err)
	}
	return nil
}

// ResetPriceList removes the stored price list so defaults apply again.
func ResetPriceList(app *pocketbase.PocketBase) error {
	rec, err := findSetting(app, PriceListKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("reset price list: %w", err)
	}
	return nil
}

// PriceBook holds the price list in force. Readers get an immutable
// snapshot; edits build a new list and swap it in whole.
type PriceBook struct {
	cur atomic.Pointer[PriceList]
	mu  sync.Mutex // serialises writers
}

func NewPriceBook(pl PriceList) *PriceBook {
	b := &PriceBook{}
	b.cur.Store(&pl)
	return b
}

// Current returns a copy of the list in force.
func (b *PriceBook) Current() PriceList {
	return *b.cur.Load()
}

// Replace swaps in pl.
func (b *PriceBook) Replace(pl PriceList) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cur.Store(&pl)
}

// Update applies edit to a copy of the current list, persists it through
// save (when non-nil) and swaps it in. A failing edit or save leaves the
// current list untouched.
func (b *PriceBook) Update(edit func(*PriceList) error, save func(PriceList) error) (PriceList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := *b.cur.Load()
	if err := edit(&next); err != nil {
		return PriceList{}, err
	}
	if save != nil {
		if err := save(next); err != nil {
			return PriceList{}, err
		}
	}
	b.cur.Store(&next)
	return next, nil
}

func newSettingRecord(col *core.Collection, key string, value any) *core.Record {
	rec := core.NewRecord(col)
	rec.Set("key", key)
	rec.Set("value", value)
	return rec
}
