package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/user/price-tracker/internal/delivery/http/request"
	"github.com/user/price-tracker/internal/delivery/http/response"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/pkg/utils"
)

// HandleTrack looks up the current price of a product page.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	var req request.TrackRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		h.writeJSONError(w, "URL is required", http.StatusBadRequest)
		return
	}

	snap, err := h.tracker.Track(r.Context(), req.URL)
	if err != nil {
		h.writeJSONError(w, scrape.UserMessage(err), trackStatus(err))
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewTrackResponse(snap))
}

func trackStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, scrape.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, scrape.ErrPriceNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
