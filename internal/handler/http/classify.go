package http

import (
	"net/http"

	"github.com/ramusparts/catalog/pkg/httputil"
)

// Classify handles POST /api/v1/catalog/classify. The pass runs
// synchronously; a concurrent attempt returns 409.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.RunPass(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
