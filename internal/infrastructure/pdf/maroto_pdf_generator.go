// Package pdf implementa el reporte PDF de estado de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación │ ítems / eventos      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA LEDGER: Ítem | Total | En ruta | Ubicaciones           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: críticos y bajos con sus umbrales                  │
//	│  FAST MOVERS: top entregados en la ventana                   │
//	│  RIESGO DE REORDEN: Ítem | Prom. diario | Días a cero | Nivel │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorLow      = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador; author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReport(_ context.Context, data dto.StockReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("ESTADO POR ÍTEM"))
	m.AddRows(ledgerHeaderRow())
	m.AddRows(ledgerRows(data.Ledger)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow(fmt.Sprintf("ALERTAS (crítico <= %d, bajo <= %d)",
		data.Alerts.CriticalThreshold, data.Alerts.LowThreshold)))
	m.AddRows(alertRows(data.Alerts)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow(fmt.Sprintf("MAYOR ROTACIÓN (últimos %d días)", data.FastMovers.WindowDays)))
	m.AddRows(fastMoverRows(data.FastMovers)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow(fmt.Sprintf("RIESGO DE REORDEN (ventana %d días)", data.ReorderRisk.WindowDays)))
	m.AddRows(riskHeaderRow())
	m.AddRows(riskRows(data.ReorderRisk)...)

	if n := len(data.Ledger.Anomalies); n > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%d registros históricos se omitieron o se contaron como cero al reconstruir el ledger.", n),
				props.Text{Size: 7, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y fecha (izq), conteos (der).
func headerRow(data dto.StockReportData) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(data.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d ítems", len(data.Ledger.Items)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("%d eventos", data.Ledger.Events), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func header(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func ledgerHeaderRow() core.Row {
	return row.New(6).Add(
		header("Ítem", 3, align.Left),
		header("Total", 2, align.Right),
		header("En ruta", 2, align.Right),
		header("Ubicaciones", 5, align.Left),
	)
}

func ledgerRows(ledger dto.LedgerDTO) []core.Row {
	if len(ledger.Items) == 0 {
		return []core.Row{emptyRow("Sin eventos registrados.")}
	}
	result := make([]core.Row, 0, len(ledger.Items))
	for _, it := range ledger.Items {
		result = append(result, row.New(6).Add(
			cell(it.ItemID, 3, align.Left),
			cell(formatUnits(it.Total), 2, align.Right),
			cell(formatUnits(it.OnRoad), 2, align.Right),
			cell(locationsLabel(it.Locations), 5, align.Left),
		))
	}
	return result
}

func alertRows(alerts dto.AlertsDTO) []core.Row {
	if len(alerts.Critical) == 0 && len(alerts.Low) == 0 {
		return []core.Row{emptyRow("Ningún ítem bajo los umbrales.")}
	}
	var result []core.Row
	add := func(label string, color *props.Color, items []dto.AlertItemDTO) {
		for _, it := range items {
			result = append(result, row.New(6).Add(
				col.New(3).Add(text.New(label, props.Text{
					Style: fontstyle.Bold, Size: 8, Color: color, Top: 1, Left: 1,
				})),
				cell(it.ItemID, 5, align.Left),
				cell(formatUnits(it.Total), 4, align.Right),
			))
		}
	}
	add("CRÍTICO", colorCritical, alerts.Critical)
	add("BAJO", colorLow, alerts.Low)
	return result
}

func fastMoverRows(fm dto.FastMoversDTO) []core.Row {
	if len(fm.Items) == 0 {
		return []core.Row{emptyRow("Sin entregas en la ventana.")}
	}
	result := make([]core.Row, 0, len(fm.Items))
	for i, it := range fm.Items {
		result = append(result, row.New(6).Add(
			cell(strconv.Itoa(i+1)+".", 1, align.Right),
			cell(it.ItemID, 7, align.Left),
			cell(formatUnits(it.DeliveredInWindow)+" entregadas", 4, align.Right),
		))
	}
	return result
}

func riskHeaderRow() core.Row {
	return row.New(6).Add(
		header("Ítem", 3, align.Left),
		header("Total", 2, align.Right),
		header("Prom. diario", 2, align.Right),
		header("Días a cero", 3, align.Right),
		header("Nivel", 2, align.Center),
	)
}

func riskRows(risk dto.ReorderRiskDTO) []core.Row {
	if len(risk.Items) == 0 {
		return []core.Row{emptyRow("Sin ítems.")}
	}
	result := make([]core.Row, 0, len(risk.Items))
	for _, it := range risk.Items {
		days := "—"
		if it.DaysToZero != nil {
			days = it.DaysToZero.StringFixed(1)
		}
		color := colorGray
		switch it.Risk {
		case "HIGH":
			color = colorCritical
		case "MED":
			color = colorLow
		}
		result = append(result, row.New(6).Add(
			cell(it.ItemID, 3, align.Left),
			cell(formatUnits(it.Total), 2, align.Right),
			cell(it.AvgDaily.StringFixed(2), 2, align.Right),
			cell(days, 3, align.Right),
			col.New(2).Add(text.New(it.Risk, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: color, Top: 1,
			})),
		))
	}
	return result
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// locationsLabel "LOC-A: 90 · LOC-B: 25" con las ubicaciones en orden alfabético.
func locationsLabel(locations map[string]int64) string {
	if len(locations) == 0 {
		return "—"
	}
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+formatUnits(locations[name]))
	}
	return strings.Join(parts, " · ")
}

// formatUnits inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
