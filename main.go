package main

import (
	"context"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"truckwash/collections"
	"truckwash/config"
	"truckwash/handlers"
	"truckwash/services"
)

func main() {
	app := pocketbase.New()
	cfg := config.Load()

	// Loaded on serve, once the collections exist.
	prices := services.NewPriceBook(services.DefaultPriceList())

	var extractor services.Extractor = services.DisabledExtractor{}
	if cfg.ExtractionEnabled() {
		g, err := services.NewGeminiExtractor(context.Background(), services.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiEndpoint,
		})
		if err != nil {
			log.Printf("Warning: document extraction disabled: %v", err)
		} else {
			extractor = g
		}
	}

	app.RootCmd.AddCommand(newPriceListCmd(app))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		pl := services.LoadPriceList(app)
		if err := pl.Validate(); err != nil {
			log.Printf("Warning: stored price list invalid: %v", err)
		}
		prices.Replace(pl)
		return se.Next()
	})

	// Serve static files from ./static
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Navigation history and page chrome for every request
		se.Router.BindFunc(handlers.NavigationMiddleware(cfg.Station))

		se.Router.GET("/", handlers.HandleHome(app, cfg.Station))
		se.Router.GET("/back", handlers.HandleBack())

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers/new", handlers.HandleCustomerRegisterPage(cfg.ExtractionEnabled()))
		se.Router.POST("/customers/new", handlers.HandleCustomerRegister(app))
		se.Router.POST("/customers/new/extract/document", handlers.HandleExtractDocument(extractor))
		se.Router.POST("/customers/new/extract/url", handlers.HandleExtractURL(extractor))
		se.Router.GET("/customers/general", handlers.HandleGeneralCustomer())
		se.Router.GET("/search", handlers.HandleSearch(app))
		se.Router.GET("/search/quotations.xlsx", handlers.HandleSearchQuotationsExcel(app))
		se.Router.GET("/customers/{code}/quotations/new", handlers.HandleQuotationNew(app, prices))
		se.Router.GET("/customers/{code}/quotations.xlsx", handlers.HandleCustomerQuotationsExcel(app))
		se.Router.GET("/customers/{code}", handlers.HandleCustomerProfile(app))
		se.Router.DELETE("/customers/{code}", handlers.HandleCustomerDelete(app))

		// ── Quotations ───────────────────────────────────────────
		se.Router.GET("/quick-quote", handlers.HandleQuickQuote(prices))
		se.Router.POST("/quotations/preview", handlers.HandleQuotationPreview(prices))
		se.Router.POST("/quotations", handlers.HandleQuotationSave(app, prices))
		se.Router.GET("/quotations/{id}/pdf", handlers.HandleQuotationPDF(app, cfg.Station))
		se.Router.GET("/quotations/{id}", handlers.HandleQuotationView(app, prices))
		se.Router.DELETE("/quotations/{id}", handlers.HandleQuotationDelete(app))

		// ── Service orders and checklists ────────────────────────
		se.Router.POST("/service-orders", handlers.HandleServiceOrderCreate(app, prices))
		se.Router.POST("/service-orders/{id}/checklist/{step}/{phase}", handlers.HandleChecklistToggle(app))
		se.Router.POST("/service-orders/{id}/vehicle", handlers.HandleServiceOrderSaveVehicle(app))
		se.Router.GET("/service-orders/{id}/pdf", handlers.HandleServiceOrderPDF(app, cfg.Station))
		se.Router.GET("/service-orders/{id}/checklist.pdf", handlers.HandleChecklistPDF(app, cfg.Station))
		se.Router.GET("/service-orders/{id}", handlers.HandleServiceOrderView(app, cfg.Station))
		se.Router.POST("/service-orders/{id}", handlers.HandleServiceOrderUpdate(app))
		se.Router.GET("/checklists", handlers.HandleChecklistTemplates())

		// ── Price settings ───────────────────────────────────────
		se.Router.GET("/settings/prices", handlers.HandlePriceSettings(prices))
		se.Router.POST("/settings/prices", handlers.HandlePriceSettingsSave(app, prices))
		se.Router.POST("/settings/prices/reset", handlers.HandlePriceSettingsReset(app, prices))
		se.Router.GET("/settings/prices/export.xlsx", handlers.HandlePriceSheetExport(prices))
		se.Router.POST("/settings/prices/import", handlers.HandlePriceSheetImport(app, prices))
		se.Router.POST("/settings/prices/import/errors", handlers.HandlePriceSheetErrorReport())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
