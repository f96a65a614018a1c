// Package config loads runtime settings: secrets from the environment (and an
// optional .env file) and the station profile printed on quotations and
// service orders.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStationFile is read from the working directory when
	// TRUCKWASH_STATION_FILE is unset.
	DefaultStationFile = "station.yaml"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/"
)

// Config is the resolved runtime configuration.
type Config struct {
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	StationFile    string
	Station        Station
}

// ExtractionEnabled reports whether an API key is configured.
func (c Config) ExtractionEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Station is the business profile shown on printed documents.
type Station struct {
	Name                 string   `yaml:"name"`
	Slogan               string   `yaml:"slogan"`
	Phone                string   `yaml:"phone"`
	Address              string   `yaml:"address"`
	StorageFeePerDay     float64  `yaml:"storage_fee_per_day"`
	StorageGraceDays     int      `yaml:"storage_grace_days"`
	MinimumDiagnosticFee float64  `yaml:"minimum_diagnostic_fee"`
	InventoryItems       []string `yaml:"inventory_items"`
	// SaleConditions replaces the generated conditions list when set.
	SaleConditions []string `yaml:"sale_conditions"`
	Authorization  string   `yaml:"authorization"`
	FuelNote       string   `yaml:"fuel_note"`
}

// DefaultStation returns the built-in station profile.
func DefaultStation() Station {
	return Station{
		Name:                 "TRUCK WASH STATION",
		Slogan:               "Cuidamos lo que te Mueve",
		StorageFeePerDay:     100,
		StorageGraceDays:     5,
		MinimumDiagnosticFee: 300,
		InventoryItems: []string{
			"Encendedor", "Extinguidor", "Llanta de Refacción", "Antena",
			"Tapetes", "Herramientas", "Gato", "Tapones de Rueda",
			"Tapón de Combustible", "Señales", "Llave de Maneral", "Espejos Laterales",
			"Radio / Stereo", "Pasa corriente", "Birlo de Seguridad", "Limpiadores",
		},
		Authorization: "Estoy de acuerdo con las condiciones de venta y Autorizo por la presente hacer el " +
			"trabajo de reparación con el material necesario, y concedo a la empresa el permiso para " +
			"operación la unidad para efectos de inspección y prueba.",
		FuelNote: "Nota. El combustible utilizado corre por cuenta del cliente",
	}
}

// Conditions returns the numbered sale conditions for the service order.
func (s Station) Conditions() []string {
	if len(s.SaleConditions) > 0 {
		return s.SaleConditions
	}
	return []string{
		fmt.Sprintf("Después de %d días de terminado el trabajo la empresa cobrara una pensión por resguardo de $%.2f por día",
			s.StorageGraceDays, s.StorageFeePerDay),
		"Es necesario liquidar al 100% del servicio para poder entregar la unidad.",
		"En caso de requerir servicio adicional el cliente sera notificado antes de realizar dicho servicio.",
		"La empresa NO se hace responsable por artículos de valor no reportados al momento de recibir el vehículo.",
		fmt.Sprintf("Cualquier diagnostico y cotización que no sea autorizado tendrá un costo mínimo de $%.2f",
			s.MinimumDiagnosticFee),
	}
}

// Merge overlays the non-zero fields of other onto s.
func (s *Station) Merge(other Station) {
	if other.Name != "" {
		s.Name = other.Name
	}
	if other.Slogan != "" {
		s.Slogan = other.Slogan
	}
	if other.Phone != "" {
		s.Phone = other.Phone
	}
	if other.Address != "" {
		s.Address = other.Address
	}
	if other.StorageFeePerDay != 0 {
		s.StorageFeePerDay = other.StorageFeePerDay
	}
	if other.StorageGraceDays != 0 {
		s.StorageGraceDays = other.StorageGraceDays
	}
	if other.MinimumDiagnosticFee != 0 {
		s.MinimumDiagnosticFee = other.MinimumDiagnosticFee
	}
	if len(other.InventoryItems) > 0 {
		s.InventoryItems = other.InventoryItems
	}
	if len(other.SaleConditions) > 0 {
		s.SaleConditions = other.SaleConditions
	}
	if other.Authorization != "" {
		s.Authorization = other.Authorization
	}
	if other.FuelNote != "" {
		s.FuelNote = other.FuelNote
	}
}

// Validate rejects profiles that would print nonsense.
func (s Station) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("station name is required"))
	}
	if s.StorageFeePerDay < 0 || s.MinimumDiagnosticFee < 0 {
		errs = append(errs, errors.New("station fees must not be negative"))
	}
	if s.StorageGraceDays < 0 {
		errs = append(errs, errors.New("storage grace days must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadStationFile reads a YAML station profile and merges it over the
// defaults.
func LoadStationFile(path string) (Station, error) {
	st := DefaultStation()
	data, err := os.ReadFile(path)
	if err != nil {
		return st, fmt.Errorf("read station file: %w", err)
	}
	var file Station
	if err := yaml.Unmarshal(data, &file); err != nil {
		return st, fmt.Errorf("parse station file %s: %w", path, err)
	}
	st.Merge(file)
	if err := st.Validate(); err != nil {
		return DefaultStation(), fmt.Errorf("station file %s: %w", path, err)
	}
	return st, nil
}

// Load reads .env (when present), the environment and the station profile.
// A missing station file is not an error; an unreadable one is logged and
// the defaults are used.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := Config{
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:    envOr("GEMINI_MODEL", DefaultGeminiModel),
		GeminiEndpoint: envOr("GEMINI_ENDPOINT", DefaultGeminiURL),
		StationFile:    envOr("TRUCKWASH_STATION_FILE", DefaultStationFile),
		Station:        DefaultStation(),
	}

	st, err := LoadStationFile(cfg.StationFile)
	switch {
	case err == nil:
		cfg.Station = st
	case errors.Is(err, os.ErrNotExist):
	default:
		log.Printf("config: using default station profile: %v", err)
	}

	if !cfg.ExtractionEnabled() {
		log.Println("config: GEMINI_API_KEY not set, document extraction disabled")
	}
	return cfg
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
