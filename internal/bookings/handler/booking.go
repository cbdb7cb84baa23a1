package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"deskhive/internal/bookings/engine"
	"deskhive/internal/bookings/service"
	httputil "deskhive/pkg/http"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

// ActorHeader carries the acting party for mutations without a request
// body. It matches the header the rate limiter keys on.
const ActorHeader = "X-Actor"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Request(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Request", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	outcome, err := h.service.Request(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Request", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	status := http.StatusOK
	if outcome.Decision.Outcome == engine.OutcomeAccepted {
		status = http.StatusCreated
	}
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: outcome}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Request", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	actor := r.Header.Get(ActorHeader)

	outcome, err := h.service.Cancel(r.Context(), id, actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, outcome); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) DaySheet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")
	date := r.URL.Query().Get("date")

	sheet, err := h.service.DaySheet(r.Context(), resourceID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DaySheet", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, sheet); err != nil {
		h.log.Error("failed to write success response", "handler", "DaySheet", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) AddBlock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddBlock", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	outcome, err := h.service.AddBlock(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddBlock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	status := http.StatusConflict
	if outcome.Decision.Outcome == engine.OutcomeAccepted {
		status = http.StatusCreated
	}
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: outcome}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "AddBlock", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) RemoveBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")
	blockID := ps.ByName("block_id")
	actor := r.Header.Get(ActorHeader)

	outcome, err := h.service.RemoveBlock(r.Context(), resourceID, blockID, actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveBlock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, outcome); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveBlock", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.WaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "JoinWaitlist", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	entry, err := h.service.JoinWaitlist(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "JoinWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "JoinWaitlist", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) LeaveWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")
	partyID := ps.ByName("party_id")
	actor := r.Header.Get(ActorHeader)

	if err := h.service.LeaveWaitlist(r.Context(), resourceID, partyID, actor); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "LeaveWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/bookings", h.Request)
	router.GET("/bookings/:id", h.GetByID)
	router.DELETE("/bookings/:id", h.Cancel)

	router.GET("/resources/:id/daysheet", h.DaySheet)

	router.POST("/blocks", h.AddBlock)
	router.DELETE("/resources/:id/blocks/:block_id", h.RemoveBlock)

	router.POST("/waitlist", h.JoinWaitlist)
	router.DELETE("/resources/:id/waitlist/:party_id", h.LeaveWaitlist)
}
