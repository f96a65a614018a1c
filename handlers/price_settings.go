package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"truckwash/services"
	"truckwash/templates"
)

// maxSheetSize bounds price sheet uploads.
const maxSheetSize = 5 << 20

// priceFormErrors maps a leaf path to its message.
type priceFormErrors map[string]string

func (p priceFormErrors) Error() string {
	return fmt.Sprintf("%d invalid prices", len(p))
}

func priceSettingsData(pl services.PriceList, errs map[string]string) templates.PriceSettingsData {
	data := templates.PriceSettingsData{
		Groups: templates.GroupLeaves(pl.Leaves()),
		Errors: errs,
	}
	if err := pl.Validate(); err != nil {
		data.Warnings = strings.Split(err.Error(), "\n")
	}
	return data
}

// HandlePriceSettings renders the editable price list.
// Route: GET /settings/prices
func HandlePriceSettings(prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderPage(e, "Precios", templates.PriceSettingsContent(priceSettingsData(prices.Current(), nil)))
	}
}

// applyPriceForm copies each posted leaf into pl. Leaves missing from the
// form keep their value.
func applyPriceForm(r *http.Request, pl *services.PriceList) error {
	errs := priceFormErrors{}
	for _, leaf := range pl.Leaves() {
		raw, ok := r.Form[leaf.Path]
		if !ok || len(raw) == 0 {
			continue
		}
		s := strings.TrimSpace(raw[0])
		if s == "" {
			s = "0"
		}
		v, err := cast.ToFloat64E(s)
		if err != nil {
			errs[leaf.Path] = "Ingresa un número válido"
			continue
		}
		if err := pl.SetLeaf(leaf.Path, v); err != nil {
			if errors.Is(err, services.ErrNegativePrice) {
				errs[leaf.Path] = "El precio no puede ser negativo"
			} else {
				errs[leaf.Path] = err.Error()
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HandlePriceSettingsSave stores the posted price list. Any invalid field
// rejects the whole form and the list in force stays as it was.
// Route: POST /settings/prices
func HandlePriceSettingsSave(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}

		var draft services.PriceList
		next, err := prices.Update(
			func(pl *services.PriceList) error {
				err := applyPriceForm(e.Request, pl)
				draft = *pl
				return err
			},
			func(pl services.PriceList) error { return services.SavePriceList(app, pl) },
		)
		if err != nil {
			var fe priceFormErrors
			if errors.As(err, &fe) {
				SetToast(e, "error", "Revisa los precios marcados")
				e.Response.WriteHeader(http.StatusUnprocessableEntity)
				return templates.PriceSettingsForm(priceSettingsData(draft, fe)).Render(e.Request.Context(), e.Response)
			}
			log.Printf("price_settings: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudieron guardar los precios")
		}

		SetToast(e, "success", "Precios guardados")
		return templates.PriceSettingsForm(priceSettingsData(next, nil)).Render(e.Request.Context(), e.Response)
	}
}

// HandlePriceSettingsReset restores the built-in defaults.
// Route: POST /settings/prices/reset
func HandlePriceSettingsReset(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		next, err := prices.Update(
			func(pl *services.PriceList) error {
				*pl = services.DefaultPriceList()
				return nil
			},
			func(services.PriceList) error { return services.ResetPriceList(app) },
		)
		if err != nil {
			log.Printf("price_settings_reset: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudieron restaurar los precios")
		}

		SetToast(e, "success", "Precios restaurados a los valores predeterminados")
		return templates.PriceSettingsForm(priceSettingsData(next, nil)).Render(e.Request.Context(), e.Response)
	}
}

// HandlePriceSheetExport downloads the list in force as an editable sheet.
// Route: GET /settings/prices/export.xlsx
func HandlePriceSheetExport(prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GeneratePriceSheet(prices.Current())
		if err != nil {
			log.Printf("price_sheet_export: %v", err)
			return e.String(http.StatusInternalServerError, "Error al generar el archivo")
		}
		filename := fmt.Sprintf("Precios_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}

// HandlePriceSheetImport applies an uploaded price sheet. A sheet with any
// bad row changes nothing and the errors are listed.
// Route: POST /settings/prices/import
func HandlePriceSheetImport(app *pocketbase.PocketBase, prices *services.PriceBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxSheetSize); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Archivo demasiado grande o formulario inválido")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Selecciona un archivo")
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, maxSheetSize))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No se pudo leer el archivo")
		}

		var result *services.ImportResult
		_, err = prices.Update(
			func(pl *services.PriceList) error {
				next, res, err := services.ImportPriceSheet(*pl, raw, header.Filename)
				if err != nil {
					return err
				}
				result = res
				if !res.OK() {
					return errRowsRejected
				}
				*pl = next
				return nil
			},
			func(pl services.PriceList) error { return services.SavePriceList(app, pl) },
		)
		switch {
		case errors.Is(err, errRowsRejected):
			return templates.ImportResults(result).Render(e.Request.Context(), e.Response)
		case err != nil && result == nil:
			log.Printf("price_sheet_import: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		case err != nil:
			log.Printf("price_sheet_import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudieron guardar los precios")
		}

		SetToast(e, "success", "Precios importados")
		e.Response.Header().Set("HX-Refresh", "true")
		return templates.ImportResults(result).Render(e.Request.Context(), e.Response)
	}
}

var errRowsRejected = errors.New("price sheet rows rejected")

// HandlePriceSheetErrorReport downloads the rejected rows as a workbook.
// Route: POST /settings/prices/import/errors
func HandlePriceSheetErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario inválidos")
		}
		var rowErrors []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors")), &rowErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de errores inválidos")
		}

		xlsxBytes, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			log.Printf("price_sheet_errors: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Error al generar el reporte")
		}
		filename := fmt.Sprintf("Precios_Errores_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, xlsxBytes)
	}
}
