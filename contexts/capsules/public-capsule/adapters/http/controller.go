package httpadapter

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainerrors "timecapsule/contexts/capsules/public-capsule/domain/errors"
	"timecapsule/contexts/capsules/public-capsule/transport/http"
	"timecapsule/contexts/shared/pagination"
	"timecapsule/internal/platform/httpx"
)

// PublicCapsulesController is mounted by the composition root at /public-capsules.
type PublicCapsulesController struct {
	Handler Handler
}

func (c PublicCapsulesController) Mount(r chi.Router) {
	r.Get("/", c.list)
	r.Get("/{capsule_id}", c.get)
}

// list godoc
// @Summary List opened public capsules
// @Tags public-capsule
// @Produce json
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httptransport.ListPublicCapsulesResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /public-capsules [get]
func (c PublicCapsulesController) list(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query(), pagination.StandardDefaults)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp, err := c.Handler.ListPublicCapsulesHandler(r.Context(), httptransport.ListPublicCapsulesRequest{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// get godoc
// @Summary Get an opened public capsule
// @Tags public-capsule
// @Produce json
// @Param capsule_id path string true "Capsule id"
// @Success 200 {object} httptransport.PublicCapsuleDTO
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 423 {object} httpx.ErrorResponse
// @Router /public-capsules/{capsule_id} [get]
func (c PublicCapsulesController) get(w http.ResponseWriter, r *http.Request) {
	resp, err := c.Handler.GetPublicCapsuleHandler(r.Context(), chi.URLParam(r, "capsule_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pagination.ErrInvalidLimit), errors.Is(err, pagination.ErrInvalidCursor),
		errors.Is(err, domainerrors.ErrInvalidPage):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_pagination", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCapsuleID):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_capsule_id", err.Error())
	case errors.Is(err, domainerrors.ErrCapsuleNotFound):
		httpx.WriteError(w, http.StatusNotFound, "capsule_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrCapsuleSealed):
		httpx.WriteError(w, http.StatusLocked, "capsule_sealed", err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "public capsules unavailable")
	}
}
