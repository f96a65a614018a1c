package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	black     = &props.Color{Red: 0, Green: 0, Blue: 0}
	grayText  = &props.Color{Red: 90, Green: 90, Blue: 90}
	lightFill = &props.Color{Red: 240, Green: 240, Blue: 240}
	boxed     = &props.Cell{BorderType: border.Full, BorderColor: black, BorderThickness: 0.2}
	boxedFill = &props.Cell{BorderType: border.Full, BorderColor: black, BorderThickness: 0.2, BackgroundColor: lightFill}
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GenerateServiceDocumentPDF renders a quotation or service order on A4.
func GenerateServiceDocumentPDF(d ServiceDocument) ([]byte, error) {
	m := newDocument()

	addStationHeader(m, d.Station.Name, d.Station.Slogan, d.Title, d.Number, d.Date)
	addPartiesBlock(m, d)
	addInventoryBlock(m, d)
	addServicesBlock(m, d)
	addConditions(m, d)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s PDF: %w", strings.ToLower(d.Title), err)
	}
	return doc.GetBytes(), nil
}

// addStationHeader prints the station name and slogan on the left and the
// document title, number and date on the right.
func addStationHeader(m core.Maroto, name, slogan, title, number, date string) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(name, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
			),
			col.New(5).Add(
				text.New(title, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
			),
		),
		row.New(7).Add(
			col.New(7).Add(
				text.New(fmt.Sprintf("\"%s\"", slogan), props.Text{Size: 9, Style: fontstyle.Italic, Align: align.Left, Color: grayText}),
			),
			col.New(5).Add(
				text.New(fmt.Sprintf("No. %s   Fecha: %s", number, date), props.Text{Size: 8, Align: align.Right}),
			),
		),
		row.New(3),
	)
}

func sectionTitle(s string) core.Component {
	return text.New(s, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Top: 1, Left: 1})
}

func cellText(s string) core.Component {
	return text.New(s, props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1})
}

// addPartiesBlock prints the customer, technician and vehicle columns.
func addPartiesBlock(m core.Maroto, d ServiceDocument) {
	v := d.Vehicle
	lines := [][3]string{
		{"Nombre: " + d.CustomerName(), "Nombre: " + d.Technician.Name, "Tipo: " + string(v.Type)},
		{"Tel: " + orNA(d.Customer.Contact.Phone), "Área: " + d.Technician.Area, "Marca: " + v.Make},
		{"Mail: " + orNA(d.Customer.Contact.Email), "Tel: " + d.Technician.Phone, "Modelo: " + v.Model},
		{"RFC: " + orNA(d.Customer.Billing.RFC), "", "Placas: " + v.Plates},
		{"", "", "Color: " + v.Color},
		{"", "", "KMS: " + v.Odometer},
	}

	m.AddRows(row.New(6).Add(
		col.New(4).Add(sectionTitle("Datos del Cliente")).WithStyle(boxedFill),
		col.New(4).Add(sectionTitle("Datos del Técnico")).WithStyle(boxedFill),
		col.New(4).Add(sectionTitle("Datos del Vehículo")).WithStyle(boxedFill),
	))
	for _, l := range lines {
		m.AddRows(row.New(5).Add(
			col.New(4).Add(cellText(l[0])).WithStyle(boxed),
			col.New(4).Add(cellText(l[1])).WithStyle(boxed),
			col.New(4).Add(cellText(l[2])).WithStyle(boxed),
		))
	}
	m.AddRows(row.New(3))
}

// addInventoryBlock prints the reception inventory three items per row
// next to the vehicle condition notes.
func addInventoryBlock(m core.Maroto, d ServiceDocument) {
	m.AddRows(row.New(6).Add(
		col.New(7).Add(sectionTitle("Recepción de Vehículo - Inventario")).WithStyle(boxedFill),
		col.New(5).Add(sectionTitle("Estado del Vehículo (Marcar daños)")).WithStyle(boxedFill),
	))

	const perRow = 3
	rows := (len(d.Inventory) + perRow - 1) / perRow
	condition := wrapLines(d.VehicleCondition, 45)
	for r := 0; r < rows; r++ {
		cols := make([]core.Col, 0, perRow+1)
		for c := 0; c < perRow; c++ {
			size := 2
			if c == perRow-1 {
				size = 3
			}
			i := r*perRow + c
			if i >= len(d.Inventory) {
				cols = append(cols, col.New(size))
				continue
			}
			mark := "[  ]"
			if d.Inventory[i].Present {
				mark = "[X]"
			}
			cols = append(cols, col.New(size).Add(cellText(mark+" "+d.Inventory[i].Item)))
		}
		note := ""
		if r < len(condition) {
			note = condition[r]
		}
		cols = append(cols, col.New(5).Add(cellText(note)).WithStyle(boxed))
		m.AddRows(row.New(5).Add(cols...))
	}
	m.AddRows(row.New(3))
}

// addServicesBlock prints the requested services, the budget total and
// the authorization box.
func addServicesBlock(m core.Maroto, d ServiceDocument) {
	m.AddRows(row.New(6).Add(
		col.New(8).Add(sectionTitle("Servicios Solicitados")).WithStyle(boxedFill),
		col.New(4).Add(sectionTitle("Importe")).WithStyle(boxedFill),
	))
	for _, sl := range d.ServiceRows() {
		m.AddRows(row.New(6).Add(
			col.New(8).Add(cellText(sl.Description)).WithStyle(boxed),
			col.New(4).Add(text.New(sl.Amount, props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})).WithStyle(boxed),
		))
	}
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New("Total del Presupuesto:", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 1.5})),
			col.New(4).Add(text.New(FormatMXN(d.Total), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 1.5, Right: 1})).WithStyle(boxedFill),
		),
		row.New(5).Add(
			col.New(12).Add(text.New(AmountToWordsMXN(d.Total), props.Text{Size: 7, Style: fontstyle.Italic, Align: align.Right, Color: grayText})),
		),
		row.New(3),
	)

	m.AddRows(row.New(6).Add(col.New(12).Add(sectionTitle("Autorización")).WithStyle(boxedFill)))
	for _, l := range wrapLines(d.Station.Authorization, 130) {
		m.AddRows(row.New(4).Add(col.New(12).Add(cellText(l))))
	}
	if d.Station.FuelNote != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(
			text.New(d.Station.FuelNote, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Left: 1, Top: 1}),
		)))
	}
	m.AddRows(
		row.New(12),
		row.New(6).Add(
			col.New(4),
			col.New(4).Add(text.New("Nombre y Firma", props.Text{Size: 8, Align: align.Center, Top: 1})).WithStyle(&props.Cell{BorderType: border.Top, BorderColor: black, BorderThickness: 0.3}),
			col.New(4),
		),
		row.New(3),
	)
}

func addConditions(m core.Maroto, d ServiceDocument) {
	conds := d.Station.Conditions()
	if len(conds) == 0 {
		return
	}
	m.AddRows(row.New(6).Add(col.New(12).Add(sectionTitle("Condiciones de Venta:"))))
	for i, c := range conds {
		for j, l := range wrapLines(c, 130) {
			prefix := "    "
			if j == 0 {
				prefix = fmt.Sprintf("%d. ", i+1)
			}
			m.AddRows(row.New(4).Add(col.New(12).Add(cellText(prefix + l))))
		}
	}
	if d.Station.Phone != "" || d.Station.Address != "" {
		m.AddRows(row.New(4), row.New(4).Add(col.New(12).Add(
			text.New(strings.Trim(d.Station.Address+" | Tel: "+d.Station.Phone, " |"), props.Text{Size: 6, Align: align.Center, Color: grayText}),
		)))
	}
}

// GenerateChecklistPDF renders the trailer checklists with one Entrada and
// one Salida box per step.
func GenerateChecklistPDF(d ChecklistDocument) ([]byte, error) {
	m := newDocument()

	addStationHeader(m, d.Station.Name, d.Station.Slogan, "CHECKLIST DE SERVICIO", d.Number, d.Date)
	m.AddRows(row.New(6).Add(
		col.New(8).Add(cellText("Cliente: "+d.Customer)),
		col.New(4).Add(text.New("Remolques: "+strings.ReplaceAll(d.Composition, ",", ", "), props.Text{Size: 7, Align: align.Right})),
	), row.New(2))

	if len(d.Sections) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin remolques seleccionados: no hay checklist para esta unidad.", props.Text{Size: 9, Align: align.Center, Top: 2}),
		)))
	}

	for _, s := range d.Sections {
		if s.Group == GroupDivider {
			m.AddRows(row.New(3), row.New(8).Add(col.New(12).Add(
				text.New(s.Title, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left, Top: 2, Left: 1}),
			).WithStyle(boxedFill)))
			continue
		}
		addChecklistSection(m, s, d.State)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate checklist PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addChecklistSection(m core.Maroto, s ChecklistSection, st ChecklistState) {
	center := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Top: 1}
	m.AddRows(row.New(6).Add(
		col.New(9).Add(sectionTitle(s.Title)).WithStyle(boxedFill),
		col.New(1).Add(text.New("Entrada", center)).WithStyle(boxedFill),
		col.New(1).Add(text.New("Salida", center)).WithStyle(boxedFill),
		col.New(1).Add(text.New("Obs.", center)).WithStyle(boxedFill),
	))

	box := props.Text{Size: 8, Align: align.Center, Top: 0.5}
	for _, step := range s.Steps {
		m.AddRows(row.New(5).Add(
			col.New(9).Add(cellText(step.Label)).WithStyle(boxed),
			col.New(1).Add(text.New(checkMark(st.Checked(step.ID, PhaseIntake)), box)).WithStyle(boxed),
			col.New(1).Add(text.New(checkMark(st.Checked(step.ID, PhaseRelease)), box)).WithStyle(boxed),
			col.New(1).WithStyle(boxed),
		))
	}
	m.AddRows(row.New(2))
}

func checkMark(on bool) string {
	if on {
		return "X"
	}
	return ""
}

// wrapLines splits s at word boundaries into lines of at most width runes.
func wrapLines(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	n := 0
	for _, w := range words {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wl
	}
	return append(lines, cur.String())
}
