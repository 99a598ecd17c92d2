package http

import (
	"net/http"
	"strconv"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/repository"
	"github.com/ramusparts/catalog/pkg/httputil"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ListProducts handles GET /api/v1/products with category, stock, search,
// and vehicle filter query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ProductFilter{
		Page:    parsePositiveInt(q.Get("page"), 1),
		PerPage: parsePositiveInt(q.Get("per_page"), defaultPerPage),
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid category_id: " + raw},
			})
			return
		}
		filter.CategoryID = &id
	}

	if raw := q.Get("in_stock"); raw != "" {
		inStock := raw == "true" || raw == "1"
		filter.InStock = &inStock
	}

	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	filter.Vehicle = vehicleFilterFromQuery(q.Get("make"), q.Get("model"), q.Get("year"), q.Get("engine"))

	products, total, err := h.products.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

func vehicleFilterFromQuery(makeParam, model, year, engine string) domain.VehicleFilter {
	var f domain.VehicleFilter
	if makeParam != "" {
		f.Make = &makeParam
	}
	if model != "" {
		f.Model = &model
	}
	if engine != "" {
		f.Engine = &engine
	}
	if year != "" {
		if y, err := strconv.Atoi(year); err == nil && y > 0 {
			f.Year = &y
		}
	}
	return f
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
