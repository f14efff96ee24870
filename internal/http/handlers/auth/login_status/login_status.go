package loginstatus

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/services"
	loginstatus "accounts/internal/core/services/login_status"
	"accounts/internal/http/handlers/auth"
	"accounts/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	service services.Service[loginstatus.Input, loginstatus.Result]
}

func New(service services.Service[loginstatus.Input, loginstatus.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

// ServeHTTP always answers 200 with a bare JSON boolean.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token, ok := auth.ParseToken(r)
	if !ok {
		response.Render(rw, false, http.StatusOK)
		return
	}
	result, err := h.service.Run(r.Context(), loginstatus.Input{Token: token})
	if err != nil {
		response.Render(rw, false, http.StatusOK)
		return
	}
	response.Render(rw, result.IsLoggedIn, http.StatusOK)
}
