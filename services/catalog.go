package services

// Category selects which of the three mutually exclusive service menus is active.
type Category string

const (
	CategoryNone         Category = ""
	CategoryArticulated  Category = "articulated"
	CategoryRigidTruck   Category = "rigid-truck"
	CategoryLightVehicle Category = "light-vehicle"
)

// Categories lists the selectable categories in menu order.
var Categories = []Category{CategoryArticulated, CategoryLightVehicle, CategoryRigidTruck}

func (c Category) Label() string {
	switch c {
	case CategoryArticulated:
		return "Tractocamión"
	case CategoryRigidTruck:
		return "Camión Unitario"
	case CategoryLightVehicle:
		return "Vehículos Ligeros"
	}
	return "Sin categoría"
}

// ParseCategory maps a form value to a Category. Unknown values yield CategoryNone.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryNone
}

// TrailerType is the kind of trailer attached to a tractor. The empty value
// means the operator has not chosen a type yet.
type TrailerType string

const (
	TrailerNone         TrailerType = ""
	TrailerCajaEstandar TrailerType = "cajaEstandar"
	TrailerPipaEstandar TrailerType = "pipaEstandar"
	TrailerPipaChica    TrailerType = "pipaChica"
	TrailerCajaGanadera TrailerType = "cajaGanadera"
	TrailerCajaChica    TrailerType = "cajaChica"
	TrailerCajaGrande   TrailerType = "cajaGrande"
	TrailerPlataforma   TrailerType = "plataforma"
)

// TrailerTypes lists every priced trailer type in menu order.
var TrailerTypes = []TrailerType{
	TrailerCajaEstandar,
	TrailerPipaEstandar,
	TrailerPipaChica,
	TrailerCajaGanadera,
	TrailerCajaChica,
	TrailerCajaGrande,
	TrailerPlataforma,
}

var trailerLabels = map[TrailerType]string{
	TrailerCajaEstandar: "Caja Estándar",
	TrailerPipaEstandar: "Pipa / Cilindro Estándar",
	TrailerPipaChica:    "Pipa / Cilindro Chica",
	TrailerCajaGanadera: "Caja Ganadera / Vehículos",
	TrailerCajaChica:    "Caja Chica",
	TrailerCajaGrande:   "Caja Grande",
	TrailerPlataforma:   "Plataforma",
}

func (t TrailerType) Label() string {
	if l, ok := trailerLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseTrailerType accepts either the slug or the display label.
func ParseTrailerType(s string) TrailerType {
	for _, t := range TrailerTypes {
		if string(t) == s || trailerLabels[t] == s {
			return t
		}
	}
	return TrailerNone
}

// TruckClass is the size tier of a rigid (unitary) truck.
type TruckClass string

const (
	TruckNone              TruckClass = ""
	TruckRabon35           TruckClass = "rabon35"
	TruckRabon5            TruckClass = "rabon5"
	TruckRabon8            TruckClass = "rabon8"
	TruckTorton            TruckClass = "torton"
	TruckTortonEnjarascado TruckClass = "tortonEnjarascado"
)

var TruckClasses = []TruckClass{TruckRabon35, TruckRabon5, TruckRabon8, TruckTorton, TruckTortonEnjarascado}

var truckLabels = map[TruckClass]string{
	TruckRabon35:           "Rabon (3.5 Ton)",
	TruckRabon5:            "Rabon (5 Ton)",
	TruckRabon8:            "Rabon (8 Ton)",
	TruckTorton:            "Torton",
	TruckTortonEnjarascado: "Torton de Enjarascado",
}

func (c TruckClass) Label() string {
	if l, ok := truckLabels[c]; ok {
		return l
	}
	return string(c)
}

func ParseTruckClass(s string) TruckClass {
	for _, c := range TruckClasses {
		if string(c) == s {
			return c
		}
	}
	return TruckNone
}

// TruckService is one of the three independently priced rigid-truck services.
type TruckService string

const (
	TruckServiceExterior TruckService = "exterior"
	TruckServiceChassis  TruckService = "chassis"
	TruckServiceEngine   TruckService = "engine"
)

var TruckServices = []TruckService{TruckServiceExterior, TruckServiceChassis, TruckServiceEngine}

func (s TruckService) Label() string {
	switch s {
	case TruckServiceExterior:
		return "Lavado Exterior"
	case TruckServiceChassis:
		return "Lavado de Chasis"
	case TruckServiceEngine:
		return "Lavado de Motor"
	}
	return string(s)
}

// BodyType is a light-vehicle body style.
type BodyType string

const (
	BodyNone      BodyType = ""
	BodyAuto      BodyType = "auto"
	BodyCamioneta BodyType = "camioneta"
	BodyPickup    BodyType = "pickup"
)

var BodyTypes = []BodyType{BodyAuto, BodyCamioneta, BodyPickup}

func (b BodyType) Label() string {
	switch b {
	case BodyAuto:
		return "Auto"
	case BodyCamioneta:
		return "Camioneta"
	case BodyPickup:
		return "Pickup"
	}
	return string(b)
}

func ParseBodyType(s string) BodyType {
	for _, b := range BodyTypes {
		if string(b) == s {
			return b
		}
	}
	return BodyNone
}

// VehicleSize is the light-vehicle size bracket.
type VehicleSize string

const (
	SizeNone   VehicleSize = ""
	SizeChico  VehicleSize = "chico"
	SizeGrande VehicleSize = "grande"
)

var VehicleSizes = []VehicleSize{SizeChico, SizeGrande}

func (s VehicleSize) Label() string {
	switch s {
	case SizeChico:
		return "Chico"
	case SizeGrande:
		return "Grande"
	}
	return string(s)
}

func ParseVehicleSize(s string) VehicleSize {
	for _, v := range VehicleSizes {
		if string(v) == s {
			return v
		}
	}
	return SizeNone
}

// PackageTier is the light-vehicle wash package. TierNone is the default.
type PackageTier string

const (
	TierNone    PackageTier = "ninguno"
	TierBasico  PackageTier = "basico"
	TierPlus    PackageTier = "plus"
	TierPremium PackageTier = "premium"
)

// PackageTiers lists the priced tiers; TierNone is offered separately.
var PackageTiers = []PackageTier{TierBasico, TierPlus, TierPremium}

func (p PackageTier) Label() string {
	switch p {
	case TierBasico:
		return "Básico"
	case TierPlus:
		return "Plus"
	case TierPremium:
		return "Premium"
	}
	return "Ninguno"
}

// ParsePackageTier falls back to TierNone for anything unrecognised.
func ParsePackageTier(s string) PackageTier {
	for _, p := range PackageTiers {
		if string(p) == s {
			return p
		}
	}
	return TierNone
}

// ALaCarteItem is an independently priced light-vehicle add-on.
type ALaCarteItem string

const (
	ALaCarteEngineWash           ALaCarteItem = "lavadoMotor"
	ALaCarteUpholsteryCleaning   ALaCarteItem = "limpiezaTelas"
	ALaCarteLeatherCleaning      ALaCarteItem = "limpiezaPiel"
	ALaCarteHeadlightRestoration ALaCarteItem = "restauracionFaros"
)

var ALaCarteItems = []ALaCarteItem{
	ALaCarteEngineWash,
	ALaCarteUpholsteryCleaning,
	ALaCarteLeatherCleaning,
	ALaCarteHeadlightRestoration,
}

func (a ALaCarteItem) Label() string {
	switch a {
	case ALaCarteEngineWash:
		return "Lavado de Motor"
	case ALaCarteUpholsteryCleaning:
		return "Limpieza de Telas"
	case ALaCarteLeatherCleaning:
		return "Limpieza de Piel"
	case ALaCarteHeadlightRestoration:
		return "Restauración de Faros"
	}
	return string(a)
}

// Addon is an articulated-unit extra service.
type Addon string

const (
	AddonDetailing   Addon = "pulidoDetallado"
	AddonCabinDetail Addon = "detalleInteriorCabina"
)

var Addons = []Addon{AddonDetailing, AddonCabinDetail}

func (a Addon) Label() string {
	switch a {
	case AddonDetailing:
		return "Pulido Detallado"
	case AddonCabinDetail:
		return "Detallado Interior de cabina"
	}
	return string(a)
}

// VehicleKind is the free-form vehicle descriptor type shown on orders.
type VehicleKind string

var VehicleKinds = []VehicleKind{"Tractor", "Remolque", "Camion", "Auto", "Pickup", "Camioneta"}
