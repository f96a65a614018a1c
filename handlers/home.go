package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/config"
	"truckwash/services"
	"truckwash/templates"
)

const recentQuotationLimit = 10

// HandleHome renders the landing menu with the latest quotations.
// Route: GET /
func HandleHome(app *pocketbase.PocketBase, station config.Station) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		recent, err := services.RecentQuotations(app, recentQuotationLimit)
		if err != nil {
			log.Printf("home: %v", err)
			recent = nil
		}
		data := templates.HomeData{
			StationName:       station.Name,
			Slogan:            station.Slogan,
			GeneralCustomerID: services.GeneralCustomerID,
			RecentQuotations:  quotationRows(recent, customerNames(app)),
		}
		return renderPage(e, "Inicio", templates.HomeContent(data))
	}
}
