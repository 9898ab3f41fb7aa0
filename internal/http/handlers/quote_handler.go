// README: Quote handlers for create/get and document downloads.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/pricing"
	"tourquote/internal/modules/quote"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QuoteService interface {
	Create(ctx context.Context, in pricing.CalculatorInput) (*quote.Quote, error)
	Get(ctx context.Context, id string) (*quote.Quote, error)
}

// RenderFunc turns a quote into document bytes and a download filename.
type RenderFunc func(*quote.Quote) ([]byte, string, error)

type QuoteHandler struct {
	quotes    QuoteService
	renderPDF RenderFunc
}

// NewQuoteHandler uses quote.RenderPDF when renderPDF is nil.
func NewQuoteHandler(svc QuoteService, renderPDF RenderFunc) *QuoteHandler {
	if renderPDF == nil {
		renderPDF = quote.RenderPDF
	}
	return &QuoteHandler{quotes: svc, renderPDF: renderPDF}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var in pricing.CalculatorInput
	if !bindJSON(c, &in) {
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Location", "/api/quotes/"+q.ID.String())
	writeJSON(c, http.StatusCreated, q)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

func (h *QuoteHandler) PDF(c *gin.Context) {
	h.download(c, "application/pdf", h.renderPDF)
}

func (h *QuoteHandler) XLSX(c *gin.Context) {
	h.download(c, xlsxContentType, quote.RenderXLSX)
}

func (h *QuoteHandler) download(c *gin.Context, contentType string, render RenderFunc) {
	q, err := h.quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	body, filename, err := render(q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}
