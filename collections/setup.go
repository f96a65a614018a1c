package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the customers, quotations,
// service_orders and app_settings collections exist.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "full_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "rfc", Required: false})
		c.Fields.Add(&core.JSONField{Name: "data", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_customers_code", true, "code", "")
	})

	ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_code", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "customer",
			Required:      false,
			CollectionId:  customers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"articulated", "rigid-truck", "light-vehicle"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "issue_date", Required: true})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.JSONField{Name: "selection", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "line_items", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "vehicle_info", MaxSize: 1 << 16})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotations_quote_number", true, "quote_number", "")
		c.AddIndex("idx_quotations_customer_code", false, "customer_code", "")
	})

	ensureCollection(app, "service_orders", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "order_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  false,
			Values:    []string{"articulated", "rigid-truck", "light-vehicle"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "selection", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "line_items", MaxSize: 1 << 20})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.JSONField{Name: "vehicle", MaxSize: 1 << 16})
		c.Fields.Add(&core.JSONField{Name: "technician", MaxSize: 1 << 16})
		c.Fields.Add(&core.JSONField{Name: "inventory", MaxSize: 1 << 16})
		c.Fields.Add(&core.TextField{Name: "vehicle_condition", Required: false})
		c.Fields.Add(&core.JSONField{Name: "checklist_state", MaxSize: 1 << 20})
		c.Fields.Add(&core.TextField{Name: "checklist_composition", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_service_orders_order_number", true, "order_number", "")
	})

	ensureCollection(app, "app_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.JSONField{Name: "value", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_app_settings_key", true, "key", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
