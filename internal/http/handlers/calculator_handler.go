// README: Price calculator endpoint.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/pricing"
)

type Calculator interface {
	Calculate(ctx context.Context, req pricing.CalculationRequest) (pricing.CalculationResult, error)
}

type CalculatorHandler struct {
	calc Calculator
}

func NewCalculatorHandler(calc Calculator) *CalculatorHandler {
	return &CalculatorHandler{calc: calc}
}

// Calculate handles POST /api/calculator.
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	var in pricing.CalculatorInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := pricing.ParseRequest(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	res, err := h.calc.Calculate(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
