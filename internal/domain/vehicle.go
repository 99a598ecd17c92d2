package domain

import "strings"

// Vehicle is a make/model/year-range entry in the fitment universe.
// YearTo is nil for vehicles still in production.
type Vehicle struct {
	ID         int64   `json:"id"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Generation *string `json:"generation,omitempty"`
	YearFrom   int     `json:"year_from"`
	YearTo     *int    `json:"year_to,omitempty"`
	Engine     *string `json:"engine,omitempty"`
}

// InProductionDuring reports whether the given year falls inside the
// vehicle's production range. An open-ended range (YearTo == nil) contains
// every year from YearFrom onward.
func (v Vehicle) InProductionDuring(year int) bool {
	return v.YearFrom <= year && (v.YearTo == nil || *v.YearTo >= year)
}

// MatchesModel reports whether the vehicle's model equals the given model,
// case-insensitively.
func (v Vehicle) MatchesModel(model string) bool {
	return strings.EqualFold(v.Model, model)
}

// VehicleFilter is the storefront's make/model/year/engine listing filter.
// Zero-valued fields are not constrained.
type VehicleFilter struct {
	Make   *string
	Model  *string
	Year   *int
	Engine *string
}

// IsZero reports whether no filter field is set.
func (f VehicleFilter) IsZero() bool {
	return f.Make == nil && f.Model == nil && f.Year == nil && f.Engine == nil
}
