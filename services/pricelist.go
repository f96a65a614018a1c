package services

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativePrice is returned by the price setters for amounts below zero.
var ErrNegativePrice = errors.New("price must not be negative")

// ErrUnknownPriceKey is returned when a setter or SetLeaf receives a key that
// has no priced entry.
var ErrUnknownPriceKey = errors.New("unknown price key")

// PriceList is the station's tariff. It is a plain value: copying it yields an
// independent list, so edits build a new list and swap it in whole.
type PriceList struct {
	ArticulatedUnit ArticulatedUnitPrices `json:"articulatedUnit"`
	RigidTruck      RigidTruckPrices      `json:"rigidTruck"`
	LightVehicle    LightVehiclePrices    `json:"lightVehicle"`
}

type ArticulatedUnitPrices struct {
	TractorExterior         float64       `json:"tractorExterior"`
	TractorInterior         float64       `json:"tractorInterior"`
	Trailers                TrailerPrices `json:"trailerTypePrice"`
	TractorCompletePackage  float64       `json:"tractorCompletePackagePrice"`
	VehicleCompleteDiscount float64       `json:"vehicleCompletePackageDiscount"`
	DetailingAddon          float64       `json:"detailingAddonPrice"`
	CabinDetailAddon        float64       `json:"cabinDetailAddonPrice"`
}

type TrailerPrices struct {
	CajaEstandar float64 `json:"cajaEstandar"`
	PipaEstandar float64 `json:"pipaEstandar"`
	PipaChica    float64 `json:"pipaChica"`
	CajaGanadera float64 `json:"cajaGanadera"`
	CajaChica    float64 `json:"cajaChica"`
	CajaGrande   float64 `json:"cajaGrande"`
	Plataforma   float64 `json:"plataforma"`
}

type ServicePrices struct {
	Exterior float64 `json:"exteriorPrice"`
	Chassis  float64 `json:"chassisPrice"`
	Engine   float64 `json:"enginePrice"`
}

type RigidTruckPrices struct {
	Rabon35           ServicePrices `json:"rabon35"`
	Rabon5            ServicePrices `json:"rabon5"`
	Rabon8            ServicePrices `json:"rabon8"`
	Torton            ServicePrices `json:"torton"`
	TortonEnjarascado ServicePrices `json:"tortonEnjarascado"`
}

type TierPrices struct {
	Basico  float64 `json:"basico"`
	Plus    float64 `json:"plus"`
	Premium float64 `json:"premium"`
}

type SizePrices struct {
	Chico  TierPrices `json:"chico"`
	Grande TierPrices `json:"grande"`
}

type LightVehiclePackages struct {
	Auto      SizePrices `json:"auto"`
	Camioneta SizePrices `json:"camioneta"`
	Pickup    SizePrices `json:"pickup"`
}

type ALaCartePrices struct {
	EngineWash           float64 `json:"lavadoMotor"`
	UpholsteryCleaning   float64 `json:"limpiezaTelas"`
	LeatherCleaning      float64 `json:"limpiezaPiel"`
	HeadlightRestoration float64 `json:"restauracionFaros"`
}

type LightVehiclePrices struct {
	Packages LightVehiclePackages `json:"packages"`
	ALaCarte ALaCartePrices       `json:"aLaCarta"`
}

// DefaultPriceList returns the compiled-in tariff.
func DefaultPriceList() PriceList {
	return PriceList{
		ArticulatedUnit: ArticulatedUnitPrices{
			TractorExterior: 650,
			TractorInterior: 350,
			Trailers: TrailerPrices{
				CajaEstandar: 950,
				PipaEstandar: 1050,
				PipaChica:    900,
				CajaGanadera: 1550,
				CajaChica:    800,
				CajaGrande:   1100,
				Plataforma:   850,
			},
			TractorCompletePackage:  950,
			VehicleCompleteDiscount: 150,
			DetailingAddon:          4000,
			CabinDetailAddon:        800,
		},
		RigidTruck: RigidTruckPrices{
			Rabon35:           ServicePrices{Exterior: 550, Chassis: 250, Engine: 300},
			Rabon5:            ServicePrices{Exterior: 650, Chassis: 300, Engine: 350},
			Rabon8:            ServicePrices{Exterior: 750, Chassis: 350, Engine: 400},
			Torton:            ServicePrices{Exterior: 850, Chassis: 400, Engine: 450},
			TortonEnjarascado: ServicePrices{Exterior: 1050, Chassis: 450, Engine: 500},
		},
		LightVehicle: LightVehiclePrices{
			Packages: LightVehiclePackages{
				Auto: SizePrices{
					Chico:  TierPrices{Basico: 130, Plus: 280, Premium: 800},
					Grande: TierPrices{Basico: 150, Plus: 320, Premium: 950},
				},
				Camioneta: SizePrices{
					Chico:  TierPrices{Basico: 160, Plus: 350, Premium: 1000},
					Grande: TierPrices{Basico: 180, Plus: 400, Premium: 1200},
				},
				Pickup: SizePrices{
					Chico:  TierPrices{Basico: 170, Plus: 380, Premium: 1100},
					Grande: TierPrices{Basico: 190, Plus: 430, Premium: 1300},
				},
			},
			ALaCarte: ALaCartePrices{
				EngineWash:           400,
				UpholsteryCleaning:   800,
				LeatherCleaning:      900,
				HeadlightRestoration: 500,
			},
		},
	}
}

// ── lookups ─────────────────────────────────────────────────────────────
//
// Each lookup returns (0, false) for a key with no priced entry. Callers in
// the quotation engine treat that as price 0.

func (p *PriceList) trailerPtr(t TrailerType) *float64 {
	tp := &p.ArticulatedUnit.Trailers
	switch t {
	case TrailerCajaEstandar:
		return &tp.CajaEstandar
	case TrailerPipaEstandar:
		return &tp.PipaEstandar
	case TrailerPipaChica:
		return &tp.PipaChica
	case TrailerCajaGanadera:
		return &tp.CajaGanadera
	case TrailerCajaChica:
		return &tp.CajaChica
	case TrailerCajaGrande:
		return &tp.CajaGrande
	case TrailerPlataforma:
		return &tp.Plataforma
	}
	return nil
}

func (p *PriceList) truckPtr(c TruckClass) *ServicePrices {
	rt := &p.RigidTruck
	switch c {
	case TruckRabon35:
		return &rt.Rabon35
	case TruckRabon5:
		return &rt.Rabon5
	case TruckRabon8:
		return &rt.Rabon8
	case TruckTorton:
		return &rt.Torton
	case TruckTortonEnjarascado:
		return &rt.TortonEnjarascado
	}
	return nil
}

func (s *ServicePrices) servicePtr(svc TruckService) *float64 {
	switch svc {
	case TruckServiceExterior:
		return &s.Exterior
	case TruckServiceChassis:
		return &s.Chassis
	case TruckServiceEngine:
		return &s.Engine
	}
	return nil
}

// Price returns the price of one rigid-truck service; unknown services cost 0.
func (s ServicePrices) Price(svc TruckService) float64 {
	if ptr := s.servicePtr(svc); ptr != nil {
		return *ptr
	}
	return 0
}

func (p *PriceList) packagePtr(b BodyType, s VehicleSize, t PackageTier) *float64 {
	var sizes *SizePrices
	switch b {
	case BodyAuto:
		sizes = &p.LightVehicle.Packages.Auto
	case BodyCamioneta:
		sizes = &p.LightVehicle.Packages.Camioneta
	case BodyPickup:
		sizes = &p.LightVehicle.Packages.Pickup
	default:
		return nil
	}
	var tiers *TierPrices
	switch s {
	case SizeChico:
		tiers = &sizes.Chico
	case SizeGrande:
		tiers = &sizes.Grande
	default:
		return nil
	}
	switch t {
	case TierBasico:
		return &tiers.Basico
	case TierPlus:
		return &tiers.Plus
	case TierPremium:
		return &tiers.Premium
	}
	return nil
}

func (p *PriceList) aLaCartePtr(item ALaCarteItem) *float64 {
	ac := &p.LightVehicle.ALaCarte
	switch item {
	case ALaCarteEngineWash:
		return &ac.EngineWash
	case ALaCarteUpholsteryCleaning:
		return &ac.UpholsteryCleaning
	case ALaCarteLeatherCleaning:
		return &ac.LeatherCleaning
	case ALaCarteHeadlightRestoration:
		return &ac.HeadlightRestoration
	}
	return nil
}

func (p *PriceList) addonPtr(a Addon) *float64 {
	switch a {
	case AddonDetailing:
		return &p.ArticulatedUnit.DetailingAddon
	case AddonCabinDetail:
		return &p.ArticulatedUnit.CabinDetailAddon
	}
	return nil
}

func priceAt(ptr *float64) (float64, bool) {
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

func (p PriceList) TrailerPrice(t TrailerType) (float64, bool) {
	return priceAt(p.trailerPtr(t))
}

func (p PriceList) RigidTruckServicePrices(c TruckClass) (ServicePrices, bool) {
	sp := p.truckPtr(c)
	if sp == nil {
		return ServicePrices{}, false
	}
	return *sp, true
}

func (p PriceList) LightVehiclePackagePrice(b BodyType, s VehicleSize, t PackageTier) (float64, bool) {
	return priceAt(p.packagePtr(b, s, t))
}

func (p PriceList) ALaCartePrice(item ALaCarteItem) (float64, bool) {
	return priceAt(p.aLaCartePtr(item))
}

func (p PriceList) AddonPrice(a Addon) (float64, bool) {
	return priceAt(p.addonPtr(a))
}

// ── setters ─────────────────────────────────────────────────────────────

func set(ptr *float64, v float64) error {
	if ptr == nil {
		return ErrUnknownPriceKey
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNegativePrice
	}
	*ptr = v
	return nil
}

func (p *PriceList) SetTractorExterior(v float64) error {
	return set(&p.ArticulatedUnit.TractorExterior, v)
}

func (p *PriceList) SetTractorInterior(v float64) error {
	return set(&p.ArticulatedUnit.TractorInterior, v)
}

func (p *PriceList) SetTractorCompletePackage(v float64) error {
	return set(&p.ArticulatedUnit.TractorCompletePackage, v)
}

func (p *PriceList) SetVehicleCompleteDiscount(v float64) error {
	return set(&p.ArticulatedUnit.VehicleCompleteDiscount, v)
}

func (p *PriceList) SetTrailerPrice(t TrailerType, v float64) error {
	return set(p.trailerPtr(t), v)
}

func (p *PriceList) SetAddonPrice(a Addon, v float64) error {
	return set(p.addonPtr(a), v)
}

func (p *PriceList) SetRigidTruckPrice(c TruckClass, svc TruckService, v float64) error {
	sp := p.truckPtr(c)
	if sp == nil {
		return ErrUnknownPriceKey
	}
	return set(sp.servicePtr(svc), v)
}

func (p *PriceList) SetLightVehiclePackagePrice(b BodyType, s VehicleSize, t PackageTier, v float64) error {
	return set(p.packagePtr(b, s, t), v)
}

func (p *PriceList) SetALaCartePrice(item ALaCarteItem, v float64) error {
	return set(p.aLaCartePtr(item), v)
}

// ── leaf enumeration for the settings form ──────────────────────────────

// PriceLeaf is one editable price, addressed by a dotted path that matches
// the JSON layout of the stored blob.
type PriceLeaf struct {
	Path  string
	Group string
	Label string
	Value float64
}

type leafDef struct {
	path  string
	group string
	label string
	ptr   *float64
}

func (p *PriceList) leafDefs() []leafDef {
	au := &p.ArticulatedUnit
	defs := []leafDef{
		{"articulatedUnit.tractorExterior", "Tractocamión", "Servicio 1: Lavado Exterior de Tractor", &au.TractorExterior},
		{"articulatedUnit.tractorInterior", "Tractocamión", "Servicio 2: Limpieza Interior de Cabina", &au.TractorInterior},
	}
	for _, t := range TrailerTypes {
		defs = append(defs, leafDef{
			"articulatedUnit.trailerTypePrice." + string(t), "Tractocamión", "Remolque: " + t.Label(), p.trailerPtr(t),
		})
	}
	defs = append(defs,
		leafDef{"articulatedUnit.tractorCompletePackagePrice", "Tractocamión", "Paquete 1: Tractor Completo", &au.TractorCompletePackage},
		leafDef{"articulatedUnit.vehicleCompletePackageDiscount", "Tractocamión", "Paquete 2: Descuento Vehículo Completo", &au.VehicleCompleteDiscount},
	)
	defs = append(defs,
		leafDef{"articulatedUnit.detailingAddonPrice", "Tractocamión", "Adicional: " + AddonDetailing.Label(), &au.DetailingAddon},
		leafDef{"articulatedUnit.cabinDetailAddonPrice", "Tractocamión", "Adicional: " + AddonCabinDetail.Label(), &au.CabinDetailAddon},
	)
	for _, c := range TruckClasses {
		sp := p.truckPtr(c)
		for _, svc := range TruckServices {
			defs = append(defs, leafDef{
				"rigidTruck." + string(c) + "." + string(svc) + "Price", "Camión Unitario", c.Label() + ": " + svc.Label(), sp.servicePtr(svc),
			})
		}
	}
	for _, b := range BodyTypes {
		for _, s := range VehicleSizes {
			for _, t := range PackageTiers {
				defs = append(defs, leafDef{
					fmt.Sprintf("lightVehicle.packages.%s.%s.%s", b, s, t),
					"Vehículos Ligeros",
					fmt.Sprintf("%s %s: Paquete %s", b.Label(), s.Label(), t.Label()),
					p.packagePtr(b, s, t),
				})
			}
		}
	}
	for _, item := range ALaCarteItems {
		defs = append(defs, leafDef{"lightVehicle.aLaCarta." + string(item), "Vehículos Ligeros", "A la Carta: " + item.Label(), p.aLaCartePtr(item)})
	}
	return defs
}

// Leaves lists every editable price in display order.
func (p PriceList) Leaves() []PriceLeaf {
	defs := p.leafDefs()
	leaves := make([]PriceLeaf, len(defs))
	for i, d := range defs {
		leaves[i] = PriceLeaf{Path: d.path, Group: d.group, Label: d.label, Value: *d.ptr}
	}
	return leaves
}

// SetLeaf sets the price addressed by path (as returned by Leaves).
func (p *PriceList) SetLeaf(path string, v float64) error {
	for _, d := range p.leafDefs() {
		if d.path == path {
			return set(d.ptr, v)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPriceKey, path)
}

// Validate checks that every selectable key carries a usable price. Lookups
// never fail at computation time, so this is the place configuration mistakes
// surface.
func (p PriceList) Validate() error {
	var errs []error
	for _, leaf := range p.Leaves() {
		if leaf.Value < 0 || math.IsNaN(leaf.Value) || math.IsInf(leaf.Value, 0) {
			errs = append(errs, fmt.Errorf("%s: invalid price %v", leaf.Path, leaf.Value))
		}
	}
	return errors.Join(errs...)
}
