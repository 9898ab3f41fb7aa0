package quote

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleQuote() *Quote {
	created := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	return &Quote{
		ID:         uuid.MustParse("3f2b8c1e-4d5a-4e6f-9a7b-1c2d3e4f5a6b"),
		Request:    sampleInput(),
		Result:     sampleResult(),
		CreatedAt:  created,
		ValidUntil: created.Add(14 * 24 * time.Hour),
	}
}

func TestRenderPDF(t *testing.T) {
	body, name, err := RenderPDF(sampleQuote())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Equal(t, "QUOTE_3F2B8C1E.pdf", name)
}

func TestNewPDFRenderer_DefaultsToCoreFont(t *testing.T) {
	r, err := NewPDFRenderer("")
	require.NoError(t, err)

	body, _, err := r.Render(sampleQuote())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestNewPDFRenderer_MissingFont(t *testing.T) {
	_, err := NewPDFRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
}

func TestPDFRenderer_JapaneseNames(t *testing.T) {
	fontPath := os.Getenv("TOURQUOTE_TEST_PDF_FONT")
	if fontPath == "" {
		t.Skip("TOURQUOTE_TEST_PDF_FONT not set")
	}
	r, err := NewPDFRenderer(fontPath)
	require.NoError(t, err)

	q := sampleQuote()
	q.Result.Tour.Name = "京都・嵐山 日帰りツアー"
	q.Result.Tour.Location = "京都"
	body, name, err := r.Render(q)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Equal(t, "QUOTE_3F2B8C1E.pdf", name)
}

func TestRenderXLSX(t *testing.T) {
	body, name, err := RenderXLSX(sampleQuote())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "quote_3F2B8C1E_20260320"))

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Quote"}, f.GetSheetList())

	id, err := f.GetCellValue("Quote", "B1")
	require.NoError(t, err)
	assert.Equal(t, "3f2b8c1e-4d5a-4e6f-9a7b-1c2d3e4f5a6b", id)

	tour, err := f.GetCellValue("Quote", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Kyoto Temples & Tea", tour)

	label, err := f.GetCellValue("Quote", "A26")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	currency, err := f.GetCellValue("Quote", "B28")
	require.NoError(t, err)
	assert.Equal(t, "USD", currency)
}
