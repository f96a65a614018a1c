package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"truckwash/services"
	"truckwash/templates"
)

func formOn(r *http.Request, name string) bool {
	return r.FormValue(name) == "on"
}

// parseSelectionForm rebuilds the operator's selection from the builder
// form. The hidden "selection" field carries the previous state; only the
// controls of the category that was rendered are read back over it, so
// blocks of other categories keep their input. r.ParseForm must have run.
func parseSelectionForm(r *http.Request) services.Selection {
	sel := services.NewSelection(services.CategoryNone)
	if raw := r.FormValue("selection"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sel); err != nil {
			log.Printf("selection_form: ignoring malformed state: %v", err)
			sel = services.NewSelection(services.CategoryNone)
		}
	}
	if sel.Trailers == nil {
		sel.Trailers = []services.Trailer{}
	}

	trigger := r.Header.Get("HX-Trigger-Name")
	switch services.ParseCategory(r.FormValue("rendered_category")) {
	case services.CategoryArticulated:
		readArticulated(r, &sel, trigger)
	case services.CategoryRigidTruck:
		readRigidTruck(r, &sel)
	case services.CategoryLightVehicle:
		readLightVehicle(r, &sel)
	}

	if c := services.ParseCategory(r.FormValue("category")); c != services.CategoryNone {
		sel.Category = c
	}
	return sel
}

func readArticulated(r *http.Request, sel *services.Selection, trigger string) {
	// Existing trailers in form order, with their ids.
	trailers := []services.Trailer{}
	next := sel.NextTrailerID
	if n, err := strconv.Atoi(r.FormValue("next_trailer_id")); err == nil && n > next {
		next = n
	}
	for _, rawID := range r.Form["trailer_id"] {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			continue
		}
		t := services.ParseTrailerType(r.FormValue("trailer_type_" + rawID))
		trailers = append(trailers, services.Trailer{ID: id, Type: t})
		if id >= next {
			next = id + 1
		}
	}
	sel.Trailers = trailers
	sel.NextTrailerID = next
	if n, err := strconv.Atoi(r.FormValue("trailer_count")); err == nil {
		sel.ResizeTrailers(min(n, templates.MaxTrailers))
	}

	sel.Tractor.Exterior = formOn(r, "tractor_exterior")
	sel.Tractor.Interior = formOn(r, "tractor_interior")
	pkg := formOn(r, "vehicle_package")
	switch trigger {
	case "tractor_exterior":
		sel.SetTractorService(services.TractorExterior, sel.Tractor.Exterior)
	case "tractor_interior":
		sel.SetTractorService(services.TractorInterior, sel.Tractor.Interior)
	}
	if trigger == "tractor_exterior" || trigger == "tractor_interior" {
		sel.VehiclePackage = pkg && sel.Tractor.Complete()
	} else {
		sel.SetVehiclePackage(pkg)
	}

	for _, a := range services.Addons {
		sel.SetAddon(a, formOn(r, "addon_"+string(a)))
	}
}

func readRigidTruck(r *http.Request, sel *services.Selection) {
	sel.RigidTruck.Class = services.ParseTruckClass(r.FormValue("truck_class"))
	for _, svc := range services.TruckServices {
		sel.SetTruckService(svc, formOn(r, "truck_"+string(svc)))
	}
}

func readLightVehicle(r *http.Request, sel *services.Selection) {
	lv := &sel.LightVehicle
	lv.BodyType = services.ParseBodyType(r.FormValue("lv_body"))
	lv.Size = services.ParseVehicleSize(r.FormValue("lv_size"))
	lv.Package = services.ParsePackageTier(r.FormValue("lv_package"))
	for _, item := range services.ALaCarteItems {
		lv.ALaCarte.Set(item, formOn(r, "alacarta_"+string(item)))
	}
}

// parseVehicleForm reads the vehicle block shared by the quotation builder
// and the service order.
func parseVehicleForm(r *http.Request) services.Vehicle {
	return services.Vehicle{
		Type:     services.VehicleKind(strings.TrimSpace(r.FormValue("vehicle_type"))),
		Make:     strings.TrimSpace(r.FormValue("vehicle_make")),
		Model:    strings.TrimSpace(r.FormValue("vehicle_model")),
		Plates:   strings.ToUpper(strings.TrimSpace(r.FormValue("vehicle_plates"))),
		Color:    strings.TrimSpace(r.FormValue("vehicle_color")),
		Odometer: strings.TrimSpace(r.FormValue("vehicle_kms")),
	}
}
