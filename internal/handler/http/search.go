package http

import (
	"net/http"
	"strings"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/fitment"
	"github.com/ramusparts/catalog/pkg/httputil"
	"github.com/ramusparts/catalog/pkg/validator"
)

// SearchRequest is the validated query of the conversational part search.
type SearchRequest struct {
	Query string `validate:"required,min=2,max=200"`
	Limit int    `validate:"gte=1,lte=50"`
}

// SearchResponse is the conversational search result: the resolved vehicle
// intent plus the products that matched.
type SearchResponse struct {
	Intent   fitment.QueryIntent `json:"intent"`
	Products []domain.Product    `json:"products"`
}

// SearchParts handles GET /api/v1/search/parts?q=.
func (h *Handler) SearchParts(w http.ResponseWriter, r *http.Request) {
	req := SearchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit: parsePositiveInt(r.URL.Query().Get("limit"), defaultPerPage),
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	intent, products, err := h.catalog.SearchParts(r.Context(), req.Query, req.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SearchResponse{Intent: intent, Products: products},
	})
}
