// README: Trip assistant handler (token-guarded suggestions).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/assistant"
)

type Assistant interface {
	Suggest(ctx context.Context, req assistant.SuggestRequest) (*assistant.Suggestion, error)
}

type AssistantHandler struct {
	assistant Assistant
}

func NewAssistantHandler(a Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: a}
}

type suggestReq struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
	TourID  int64  `json:"tourId"`
	From    string `json:"from"`
}

// Suggest handles POST /api/assistant/suggest.
func (h *AssistantHandler) Suggest(c *gin.Context) {
	var req suggestReq
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Message) > 2000 {
		writeCodedError(c, http.StatusBadRequest, "bad_request", "message too long")
		return
	}
	out, err := h.assistant.Suggest(c.Request.Context(), assistant.SuggestRequest{
		UID:     req.UID,
		Message: req.Message,
		TourID:  req.TourID,
		From:    req.From,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, out)
}
