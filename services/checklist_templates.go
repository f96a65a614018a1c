package services

// SectionGroup tags a checklist section for display.
type SectionGroup string

const (
	GroupProcess    SectionGroup = ""
	GroupSafety     SectionGroup = "safety"
	GroupTankSafety SectionGroup = "tank-safety"
	GroupDivider    SectionGroup = "divider"
)

// TemplateKey identifies one fixed trailer checklist template.
type TemplateKey string

const (
	TemplateDryBox       TemplateKey = "caja-seca"
	TemplateRefrigerated TemplateKey = "refrigerado"
	TemplateHopper       TemplateKey = "tolva"
	TemplateTanker       TemplateKey = "cisterna"
	TemplateFlatbed      TemplateKey = "plataforma"
)

type sectionTemplate struct {
	key   string
	title string
	group SectionGroup
	steps []string
}

var safetyGeneral = sectionTemplate{
	key:   "seguridad",
	title: "Checklist de Seguridad y EPP",
	group: GroupSafety,
	steps: []string{
		"Verificación de la Unidad y el Área de Trabajo (Inspección Visual).",
		"Conexión a tierra de la unidad.",
		"EPP: Guantes industriales (nitrilo para químicos, de carnaza para trabajos pesados).",
		"EPP: Gafas de seguridad o careta facial.",
		"EPP: Casco de seguridad.",
		"EPP: Botas con punta de acero y suela antiderrapante.",
		"EPP: Chaleco de alta visibilidad.",
	},
}

var safetyTank = sectionTemplate{
	key:   "seguridad-cisterna",
	title: "Seguridad para Lavado Interior de Cisternas",
	group: GroupTankSafety,
	steps: []string{
		"Monitoreo de LEL (0%) y O2 (19.5%-20.9%) antes de iniciar el lavado interior.",
		"Verificación de desgasificación del tanque.",
		"Apertura y ventilación de la cisterna con equipos adecuados.",
		"EPP Específico: Mascarilla de protección respiratoria con filtro adecuado.",
		"Disponibilidad: Extintor de incendios cercano y en buen estado.",
	},
}

const stepDescaler = "Aplicación de desincrustante"

var (
	phaseReception = sectionTemplate{key: "recepcion", title: "1. Recepción", steps: []string{"Inspección visual", "Verificación de carga previa"}}
	phasePrewash   = sectionTemplate{key: "prelavado", title: "2. Prelavado", steps: []string{"Aplicación de agua a alta presión", "Limpieza de bajos"}}
	phaseWash      = sectionTemplate{key: "lavado", title: "3. Lavado", steps: []string{"Aplicación de detergente/shampoo", "Cepillado de carrocería y neumáticos"}}
	phaseRinse     = sectionTemplate{key: "enjuague", title: "5. Enjuague", steps: []string{"Enjuague con agua a presión", "Enjuague con agua desmineralizada"}}
	phaseDrying    = sectionTemplate{key: "secado", title: "6. Secado", steps: []string{"Secado con aire comprimido", "Aplicación de lubricante en piezas móviles"}}
	phaseCabin     = sectionTemplate{key: "cabina", title: "7. Limpieza Cabina", steps: []string{"Aspirado y limpieza de cabina"}}
)

func interiorPhase(steps ...string) sectionTemplate {
	return sectionTemplate{key: "interior", title: "4. Interior", steps: steps}
}

func certificationPhase(steps ...string) sectionTemplate {
	return sectionTemplate{key: "certificacion", title: "8. Certificación", steps: steps}
}

func withStep(s sectionTemplate, step string) sectionTemplate {
	s.steps = append(append([]string(nil), s.steps...), step)
	return s
}

type trailerTemplate struct {
	key      TemplateKey
	title    string
	sections []sectionTemplate
}

var trailerTemplates = []trailerTemplate{
	{
		key:   TemplateDryBox,
		title: "Tractor / Caja Seca",
		sections: []sectionTemplate{
			phaseReception, phasePrewash, phaseWash,
			interiorPhase("Procedimiento Específico: Limpieza Interior"),
			phaseRinse, phaseDrying, phaseCabin,
		},
	},
	{
		key:   TemplateRefrigerated,
		title: "Caja Refrigerada",
		sections: []sectionTemplate{
			phaseReception, phasePrewash, withStep(phaseWash, stepDescaler),
			interiorPhase("Procedimiento Específico: Limpieza Interior"),
			phaseRinse, phaseDrying, phaseCabin,
			certificationPhase("Sanitización y fumigación", "Emisión de certificado de lavado"),
		},
	},
	{
		key:   TemplateHopper,
		title: "Tolva",
		sections: []sectionTemplate{
			phaseReception, phasePrewash, withStep(phaseWash, stepDescaler),
			interiorPhase("Procedimiento Específico: Limpieza Interior"),
			phaseRinse, phaseDrying, phaseCabin,
		},
	},
	{
		key:   TemplateTanker,
		title: "Pipa / Cisterna",
		sections: []sectionTemplate{
			phaseReception, phasePrewash, withStep(phaseWash, stepDescaler),
			interiorPhase("Vaporización y Desgasificación", "Procedimiento Específico: Limpieza Interior"),
			phaseRinse, phaseDrying, phaseCabin,
			certificationPhase("Medición de gases", "Emisión de certificado de lavado"),
		},
	},
	{
		key:      TemplateFlatbed,
		title:    "Plataforma",
		sections: []sectionTemplate{phaseReception, phasePrewash, phaseWash, phaseRinse, phaseDrying, phaseCabin},
	},
}

// templateForTrailer is the fixed many-to-one mapping from trailer type to
// checklist template. Types absent from the map have no checklist.
var templateForTrailer = map[TrailerType]TemplateKey{
	TrailerCajaEstandar: TemplateDryBox,
	TrailerCajaChica:    TemplateDryBox,
	TrailerCajaGrande:   TemplateDryBox,
	TrailerPipaEstandar: TemplateTanker,
	TrailerPipaChica:    TemplateTanker,
	TrailerCajaGanadera: TemplateFlatbed,
	TrailerPlataforma:   TemplateFlatbed,
}

func lookupTemplate(key TemplateKey) (trailerTemplate, bool) {
	for _, tt := range trailerTemplates {
		if tt.key == key {
			return tt, true
		}
	}
	return trailerTemplate{}, false
}

// TemplateFor returns the template key used for trailer type t.
func TemplateFor(t TrailerType) (TemplateKey, bool) {
	k, ok := templateForTrailer[t]
	return k, ok
}
