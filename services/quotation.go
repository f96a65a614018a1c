package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one priced row of a quotation. Discount rows carry a negative price.
type LineItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Quote is the itemised result of pricing a selection.
type Quote struct {
	LineItems []LineItem `json:"lineItems"`
	Total     float64    `json:"total"`
}

// DiscountRule decides which trailers make a selection eligible for the
// complete-vehicle discount.
type DiscountRule int

const (
	// DiscountFirstTrailer requires the first trailer in the list to have a type.
	DiscountFirstTrailer DiscountRule = iota
	// DiscountAnyTrailer accepts a typed trailer at any position.
	DiscountAnyTrailer
)

type QuoteOptions struct {
	Discount DiscountRule
}

const (
	descTractorPackage  = "Paquete 1: Lavado Completo de Tractor"
	descTractorExterior = "Servicio 1: Lavado de Tractor Exterior"
	descTractorInterior = "Servicio 2: Aspirado y limpieza interior de Cabina"
	descVehicleDiscount = "Descuento Paquete 2"
)

// ComputeQuotation prices sel for the given category with the default
// first-trailer discount rule. It never fails: missing prices count as zero.
func ComputeQuotation(sel Selection, prices PriceList, category Category) Quote {
	return ComputeQuotationWith(sel, prices, category, QuoteOptions{})
}

// ComputeQuotationWith is ComputeQuotation with an explicit discount rule.
func ComputeQuotationWith(sel Selection, prices PriceList, category Category, opts QuoteOptions) Quote {
	var items []LineItem
	switch category {
	case CategoryArticulated:
		items = articulatedLines(sel, prices, opts)
	case CategoryRigidTruck:
		items = rigidTruckLines(sel.RigidTruck, prices)
	case CategoryLightVehicle:
		items = lightVehicleLines(sel.LightVehicle, prices)
	}
	if items == nil {
		items = []LineItem{}
	}
	return Quote{LineItems: items, Total: SumLineItems(items)}
}

// SumLineItems adds line prices in decimal so that cents do not drift.
func SumLineItems(items []LineItem) float64 {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(decimal.NewFromFloat(li.Price))
	}
	f, _ := total.Round(2).Float64()
	return f
}

func articulatedLines(sel Selection, prices PriceList, opts QuoteOptions) []LineItem {
	au := prices.ArticulatedUnit
	var items []LineItem

	if sel.Tractor.Complete() {
		items = append(items, LineItem{descTractorPackage, au.TractorCompletePackage})
	} else {
		if sel.Tractor.Exterior {
			items = append(items, LineItem{descTractorExterior, au.TractorExterior})
		}
		if sel.Tractor.Interior {
			items = append(items, LineItem{descTractorInterior, au.TractorInterior})
		}
	}

	for _, t := range sel.Trailers {
		if t.Type == TrailerNone {
			continue
		}
		price, _ := prices.TrailerPrice(t.Type)
		items = append(items, LineItem{"Lavado Remolque - " + t.Type.Label(), price})
	}

	if sel.VehiclePackage && sel.Tractor.Complete() && discountEligible(sel.Trailers, opts.Discount) {
		items = append(items, LineItem{descVehicleDiscount, -au.VehicleCompleteDiscount})
	}

	for _, a := range Addons {
		if !sel.AddonRequested(a) {
			continue
		}
		price, _ := prices.AddonPrice(a)
		items = append(items, LineItem{"Adicional: " + a.Label(), price})
	}
	return items
}

func discountEligible(trailers []Trailer, rule DiscountRule) bool {
	if len(trailers) == 0 {
		return false
	}
	if rule == DiscountAnyTrailer {
		for _, t := range trailers {
			if t.Type != TrailerNone {
				return true
			}
		}
		return false
	}
	return trailers[0].Type != TrailerNone
}

func rigidTruckLines(rt RigidTruckSelection, prices PriceList) []LineItem {
	if rt.Class == TruckNone {
		return nil
	}
	sp, _ := prices.RigidTruckServicePrices(rt.Class)
	var items []LineItem
	for _, svc := range TruckServices {
		if !rt.Requested(svc) {
			continue
		}
		price, _ := priceAt(sp.servicePtr(svc))
		items = append(items, LineItem{fmt.Sprintf("%s - %s", svc.Label(), rt.Class.Label()), price})
	}
	return items
}

func lightVehicleLines(lv LightVehicleSelection, prices PriceList) []LineItem {
	if lv.BodyType == BodyNone || lv.Size == SizeNone {
		return nil
	}
	var items []LineItem
	if lv.Package != TierNone && lv.Package != "" {
		price, _ := prices.LightVehiclePackagePrice(lv.BodyType, lv.Size, lv.Package)
		items = append(items, LineItem{
			fmt.Sprintf("Paquete %s - %s %s", lv.Package.Label(), lv.BodyType.Label(), lv.Size.Label()),
			price,
		})
	}
	for _, item := range ALaCarteItems {
		if !lv.ALaCarte.Requested(item) {
			continue
		}
		price, _ := prices.ALaCartePrice(item)
		items = append(items, LineItem{"A la Carta: " + item.Label(), price})
	}
	return items
}
