package http

import (
	"net/http"
	"sort"

	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/pkg/httputil"
)

// VehicleConfigTree is the make -> model -> options structure the storefront
// vehicle filter renders.
type VehicleConfigTree map[string]map[string]ModelConfig

// ModelConfig lists the selectable options for one model.
type ModelConfig struct {
	Years       []int    `json:"years"`
	Engines     []string `json:"engines"`
	Generations []string `json:"generations"`
}

// VehicleConfig handles GET /api/v1/vehicles/config. The tree is rebuilt
// from the vehicle snapshot at most once per cache TTL.
func (h *Handler) VehicleConfig(w http.ResponseWriter, r *http.Request) {
	if tree, ok := h.configCache.Get(); ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tree})
		return
	}

	vehicles, err := h.vehicles.Vehicles(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	tree := BuildVehicleConfigTree(vehicles, h.now().Year())
	h.configCache.Set(tree)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tree})
}

// BuildVehicleConfigTree expands vehicle production ranges into selectable
// year lists. An open-ended range is capped at currentYear.
func BuildVehicleConfigTree(vehicles []domain.Vehicle, currentYear int) VehicleConfigTree {
	type modelAgg struct {
		years       map[int]struct{}
		engines     map[string]struct{}
		generations map[string]struct{}
	}

	agg := make(map[string]map[string]*modelAgg)
	for _, v := range vehicles {
		models, ok := agg[v.Make]
		if !ok {
			models = make(map[string]*modelAgg)
			agg[v.Make] = models
		}
		m, ok := models[v.Model]
		if !ok {
			m = &modelAgg{
				years:       make(map[int]struct{}),
				engines:     make(map[string]struct{}),
				generations: make(map[string]struct{}),
			}
			models[v.Model] = m
		}

		last := currentYear
		if v.YearTo != nil {
			last = *v.YearTo
		}
		for y := v.YearFrom; y <= last; y++ {
			m.years[y] = struct{}{}
		}
		if v.Engine != nil && *v.Engine != "" {
			m.engines[*v.Engine] = struct{}{}
		}
		if v.Generation != nil && *v.Generation != "" {
			m.generations[*v.Generation] = struct{}{}
		}
	}

	tree := make(VehicleConfigTree, len(agg))
	for mk, models := range agg {
		tree[mk] = make(map[string]ModelConfig, len(models))
		for model, m := range models {
			tree[mk][model] = ModelConfig{
				Years:       sortedInts(m.years),
				Engines:     sortedStrings(m.engines),
				Generations: sortedStrings(m.generations),
			}
		}
	}
	return tree
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
