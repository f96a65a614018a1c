package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	// GeneralCustomerID is the reserved id of the walk-in customer.
	GeneralCustomerID = "CUST-GENERAL"
	// GenericPublicRFC is the SAT's RFC for sales to the general public.
	GenericPublicRFC = "XAXX010101000"
)

var quotationPrefixes = map[Category]string{
	CategoryArticulated:  "tractocamion-quote",
	CategoryRigidTruck:   "truck-quote",
	CategoryLightVehicle: "auto-quote",
}

// QuotationPrefix returns the id prefix for category. Quotations without a
// category are filed as articulated.
func QuotationPrefix(c Category) string {
	if p, ok := quotationPrefixes[c]; ok {
		return p
	}
	return quotationPrefixes[CategoryArticulated]
}

// QuotationID formats a quotation id: <prefix>-<unix-ms>.
func QuotationID(c Category, now time.Time) string {
	return fmt.Sprintf("%s-%d", QuotationPrefix(c), now.UnixMilli())
}

// CategoryFromQuotationID recovers the category encoded in a quotation id.
func CategoryFromQuotationID(id string) Category {
	for c, p := range quotationPrefixes {
		if strings.HasPrefix(id, p+"-") {
			return c
		}
	}
	return CategoryNone
}

func CustomerID(now time.Time) string {
	return fmt.Sprintf("CUST-%d", now.UnixMilli())
}

func VehicleID(now time.Time) string {
	return fmt.Sprintf("VEH-%d", now.UnixMilli())
}

func ServiceOrderID(now time.Time) string {
	return fmt.Sprintf("OS-%d", now.UnixMilli())
}
