// README: Quote exports (PDF for customers, XLSX for the back office).
package quote

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tourquote/internal/modules/pricing"
	"tourquote/internal/types"
)

type costLine struct {
	label  string
	amount float64
}

func costLines(q *Quote) []costLine {
	c := q.Result.Costs
	return []costLine{
		{"Tour (per participant x participants)", c.BaseCost},
		{"Vehicle", c.VehicleCost},
		{"Driver", c.DriverCost},
		{"Hotel", c.HotelCost},
		{"Meals", c.MealsCost},
		{"Guide", c.GuideCost},
		{"Subtotal (season adjusted)", c.Subtotal},
		{"Service fee", c.ProfitAmount},
		{"Tax", c.TaxAmount},
		{"Total", c.TotalAmount},
	}
}

func jpy(v float64) string {
	return types.FormatAmount(decimal.NewFromFloat(v), types.JPY)
}

func shortID(q *Quote) string {
	return strings.ToUpper(q.ID.String()[:8])
}

const utf8Family = "quote"

// PDFRenderer lays out quotation PDFs. Without a font it uses core Helvetica,
// which only covers cp1252; Japanese names need a UTF-8 TrueType font.
type PDFRenderer struct {
	font []byte
}

// NewPDFRenderer loads the TrueType font at fontPath. An empty path selects
// the Latin-only core font.
func NewPDFRenderer(fontPath string) (*PDFRenderer, error) {
	if fontPath == "" {
		return &PDFRenderer{}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	return &PDFRenderer{font: font}, nil
}

// RenderPDF renders q with the core font.
func RenderPDF(q *Quote) ([]byte, string, error) {
	return (&PDFRenderer{}).Render(q)
}

func (r *PDFRenderer) setup(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if len(r.font) == 0 {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8FontFromBytes(utf8Family, style, r.font)
	}
	return utf8Family, func(s string) string { return s }
}

// Render returns the document bytes and a download filename.
func (r *PDFRenderer) Render(q *Quote) ([]byte, string, error) {
	res := q.Result
	calc := res.Calculation

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tour Quotation", false)
	family, tr := r.setup(pdf)
	if err := pdf.Error(); err != nil {
		return nil, "", fmt.Errorf("load pdf font: %w", err)
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, "TOUR QUOTATION")
	pdf.Ln(12)

	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 6, "Quote No    : Q-"+shortID(q))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued      : "+q.CreatedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Valid until : "+q.ValidUntil.Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont(family, "B", 12)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s (%s)", res.Tour.Name, res.Tour.Location)))
	pdf.Ln(8)

	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Dates: %s to %s (%d days, %d nights)",
		calc.StartDate, calc.EndDate, calc.DurationDays, calc.NumNights))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Participants: %d   Vehicle: %s x%d",
		calc.Participants, tr(res.Vehicle.Name), calc.VehicleCount))
	pdf.Ln(6)
	if res.Guide != nil {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Guide: %s (%s)", res.Guide.Name, strings.Join(res.Guide.Languages, ", "))))
		pdf.Ln(6)
	}
	if h := calc.HotelPricing; h != nil {
		label := fmt.Sprintf("%d-star tier", h.Stars)
		if h.Source == pricing.HotelSpecific {
			label = h.HotelName
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("Hotel: %s  rooms S%d/D%d/T%d", label, h.Rooms.Single, h.Rooms.Double, h.Rooms.Triple)))
		pdf.Ln(6)
	}
	if calc.SeasonName != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Season: %s (x%.2f)", calc.SeasonName, calc.SeasonMultiplier)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont(family, "B", 12)
	pdf.Cell(0, 7, "Breakdown:")
	pdf.Ln(8)

	lines := costLines(q)
	for i, l := range lines {
		if i == len(lines)-1 {
			pdf.SetFont(family, "B", 12)
		} else {
			pdf.SetFont(family, "", 11)
		}
		pdf.CellFormat(120, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, jpy(l.amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if res.Currency != types.JPY {
		pdf.SetFont(family, "B", 12)
		pdf.Cell(0, 8, "Total in "+string(res.Currency)+": "+res.FormattedTotal)
		pdf.Ln(10)
	}

	pdf.SetFont(family, "I", 9)
	pdf.MultiCell(0, 5, "Prices are in Japanese yen unless stated otherwise. Converted totals use the exchange rate at the time of quotation.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("QUOTE_%s.pdf", shortID(q)), nil
}

// RenderXLSX returns a single-sheet workbook with the quote summary and breakdown.
func RenderXLSX(q *Quote) ([]byte, string, error) {
	const sheet = "Quote"
	res := q.Result
	calc := res.Calculation

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", fmt.Errorf("name sheet: %w", err)
	}

	rows := [][]any{
		{"Quote ID", q.ID.String()},
		{"Created At", q.CreatedAt.Format("2006-01-02 15:04")},
		{"Valid Until", q.ValidUntil.Format("2006-01-02")},
		{"Tour", res.Tour.Name},
		{"Location", res.Tour.Location},
		{"Start Date", calc.StartDate},
		{"End Date", calc.EndDate},
		{"Duration (days)", calc.DurationDays},
		{"Nights", calc.NumNights},
		{"Participants", calc.Participants},
		{"Vehicle", fmt.Sprintf("%s x%d", res.Vehicle.Name, calc.VehicleCount)},
		{"Season Multiplier", calc.SeasonMultiplier},
		{"Profit Margin Rate", calc.ProfitMarginRate},
		{"Tax Rate", calc.TaxRate},
		{},
		{"Cost Component", "JPY"},
	}
	for _, l := range costLines(q) {
		rows = append(rows, []any{l.label, l.amount})
	}
	rows = append(rows, []any{}, []any{"Currency", string(res.Currency)}, []any{"Total in Currency", res.TotalInRequestedCurrency})

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", err
	}
	last := fmt.Sprintf("A%d", len(rows))
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, "", err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, "", err
	}
	first := len(rows) - len(costLines(q)) - 2
	if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", first), fmt.Sprintf("B%d", first+len(costLines(q))-1), money); err != nil {
		return nil, "", err
	}
	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("quote_%s_%s.xlsx", shortID(q), q.CreatedAt.Format("20060102_1504")), nil
}
