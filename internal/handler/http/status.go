package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/session"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
)

type StatusHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type statusHandlerImpl struct {
	session session.Session
}

func NewStatusHandler(sess session.Session) StatusHandler {
	return &statusHandlerImpl{session: sess}
}

// Status implements StatusHandler.
func (h *statusHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.session.Status())
}

// Refresh implements StatusHandler.
func (h *statusHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Refresh(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Document reloaded", h.session.Status())
}
