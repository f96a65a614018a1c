package services

import "strings"

// TractorSide names one of the two individually priced tractor services.
type TractorSide string

const (
	TractorExterior TractorSide = "exterior"
	TractorInterior TractorSide = "interior"
)

type TractorSelection struct {
	Exterior bool `json:"exterior"`
	Interior bool `json:"interior"`
}

// Complete reports whether both sides are requested.
func (t TractorSelection) Complete() bool {
	return t.Exterior && t.Interior
}

// Trailer is one attached trailer. ID is an arena index scoped to the owning
// Selection and never reused.
type Trailer struct {
	ID   int         `json:"id"`
	Type TrailerType `json:"type"`
}

type AddonSelection struct {
	Detailing   bool `json:"pulidoDetallado"`
	CabinDetail bool `json:"detalleInteriorCabina"`
}

type RigidTruckSelection struct {
	Class    TruckClass `json:"class"`
	Exterior bool       `json:"exterior"`
	Chassis  bool       `json:"chassis"`
	Engine   bool       `json:"engine"`
}

// Requested reports whether svc is switched on.
func (r RigidTruckSelection) Requested(svc TruckService) bool {
	switch svc {
	case TruckServiceExterior:
		return r.Exterior
	case TruckServiceChassis:
		return r.Chassis
	case TruckServiceEngine:
		return r.Engine
	}
	return false
}

type ALaCarteSelection struct {
	EngineWash           bool `json:"lavadoMotor"`
	UpholsteryCleaning   bool `json:"limpiezaTelas"`
	LeatherCleaning      bool `json:"limpiezaPiel"`
	HeadlightRestoration bool `json:"restauracionFaros"`
}

// Requested reports whether item is switched on.
func (a ALaCarteSelection) Requested(item ALaCarteItem) bool {
	switch item {
	case ALaCarteEngineWash:
		return a.EngineWash
	case ALaCarteUpholsteryCleaning:
		return a.UpholsteryCleaning
	case ALaCarteLeatherCleaning:
		return a.LeatherCleaning
	case ALaCarteHeadlightRestoration:
		return a.HeadlightRestoration
	}
	return false
}

// Set switches item on or off. Unknown items are ignored.
func (a *ALaCarteSelection) Set(item ALaCarteItem, on bool) {
	switch item {
	case ALaCarteEngineWash:
		a.EngineWash = on
	case ALaCarteUpholsteryCleaning:
		a.UpholsteryCleaning = on
	case ALaCarteLeatherCleaning:
		a.LeatherCleaning = on
	case ALaCarteHeadlightRestoration:
		a.HeadlightRestoration = on
	}
}

type LightVehicleSelection struct {
	BodyType BodyType          `json:"bodyType"`
	Size     VehicleSize       `json:"size"`
	Package  PackageTier       `json:"package"`
	ALaCarte ALaCarteSelection `json:"aLaCarta"`
}

// Selection is the operator's working choice of services. Only the block that
// matches Category is priced; the others are carried along untouched so that
// switching category back and forth does not lose input.
type Selection struct {
	Category       Category              `json:"category"`
	Tractor        TractorSelection      `json:"tractor"`
	Trailers       []Trailer             `json:"trailers"`
	NextTrailerID  int                   `json:"nextTrailerId"`
	VehiclePackage bool                  `json:"vehiclePackage"`
	Addons         AddonSelection        `json:"addons"`
	RigidTruck     RigidTruckSelection   `json:"rigidTruck"`
	LightVehicle   LightVehicleSelection `json:"lightVehicle"`
}

// NewSelection returns an empty selection for category with the light-vehicle
// package defaulted to TierNone.
func NewSelection(category Category) Selection {
	return Selection{
		Category:     category,
		Trailers:     []Trailer{},
		LightVehicle: LightVehicleSelection{Package: TierNone},
	}
}

// ResizeTrailers grows or shrinks the trailer list to n entries. Existing
// trailers keep their ids and types by position; new trailers get fresh ids
// and no type.
func (s *Selection) ResizeTrailers(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.Trailers) {
		s.Trailers = s.Trailers[:n:n]
		return
	}
	for len(s.Trailers) < n {
		s.Trailers = append(s.Trailers, Trailer{ID: s.NextTrailerID})
		s.NextTrailerID++
	}
}

// SetTrailerType assigns t to the trailer with the given id. It reports
// whether such a trailer exists.
func (s *Selection) SetTrailerType(id int, t TrailerType) bool {
	for i := range s.Trailers {
		if s.Trailers[i].ID == id {
			s.Trailers[i].Type = t
			return true
		}
	}
	return false
}

// SetTractorService toggles one tractor side. The complete-vehicle package
// needs a complete tractor, so turning a side off also clears it.
func (s *Selection) SetTractorService(side TractorSide, on bool) {
	switch side {
	case TractorExterior:
		s.Tractor.Exterior = on
	case TractorInterior:
		s.Tractor.Interior = on
	default:
		return
	}
	if !on {
		s.VehiclePackage = false
	}
}

// SetVehiclePackage toggles the complete-vehicle package. Switching it on
// requests both tractor sides.
func (s *Selection) SetVehiclePackage(on bool) {
	s.VehiclePackage = on
	if on {
		s.Tractor.Exterior = true
		s.Tractor.Interior = true
	}
}

// SetAddon toggles an articulated-unit add-on.
func (s *Selection) SetAddon(a Addon, on bool) {
	switch a {
	case AddonDetailing:
		s.Addons.Detailing = on
	case AddonCabinDetail:
		s.Addons.CabinDetail = on
	}
}

// AddonRequested reports whether add-on a is switched on.
func (s Selection) AddonRequested(a Addon) bool {
	switch a {
	case AddonDetailing:
		return s.Addons.Detailing
	case AddonCabinDetail:
		return s.Addons.CabinDetail
	}
	return false
}

// SetTruckService toggles a rigid-truck service.
func (s *Selection) SetTruckService(svc TruckService, on bool) {
	switch svc {
	case TruckServiceExterior:
		s.RigidTruck.Exterior = on
	case TruckServiceChassis:
		s.RigidTruck.Chassis = on
	case TruckServiceEngine:
		s.RigidTruck.Engine = on
	}
}

// TrailerComposition fingerprints the ordered trailer types. Two selections
// with the same fingerprint generate the same checklist.
func (s Selection) TrailerComposition() string {
	if len(s.Trailers) == 0 {
		return ""
	}
	parts := make([]string, len(s.Trailers))
	for i, t := range s.Trailers {
		if t.Type == TrailerNone {
			parts[i] = "-"
			continue
		}
		parts[i] = string(t.Type)
	}
	return strings.Join(parts, ",")
}

// Clone returns a deep copy so the trailer slice is not shared.
func (s Selection) Clone() Selection {
	c := s
	c.Trailers = append([]Trailer(nil), s.Trailers...)
	if c.Trailers == nil {
		c.Trailers = []Trailer{}
	}
	return c
}
