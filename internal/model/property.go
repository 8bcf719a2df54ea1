package model

// Status is the sale status shown for a property. Values are the
// user-facing Russian labels the frontend renders as-is.
type Status string

const (
	StatusCompleted         Status = "Сдан"
	StatusUnderConstruction Status = "Котлован"
	StatusForSale           Status = "В продаже"
)

// Property represents one listing from the corpus (CSV row or table row).
// ID is assigned by the corpus reader at load time, 1-based in read order,
// and is stable only within a single load.
type Property struct {
	ID             int      `json:"id" db:"id"`
	DeveloperName  string   `json:"developer" db:"developer_name"`
	ProjectName    string   `json:"project" db:"project_name"`
	PropertyType   string   `json:"property_type" db:"property_type"`
	RoomsCount     *int     `json:"rooms,omitempty" db:"rooms_count"`
	AreaSqm        *float64 `json:"area,omitempty" db:"area"`
	PriceTotal     *float64 `json:"price,omitempty" db:"price_total"`
	CompletionYear *int     `json:"completion_year,omitempty" db:"completion_year"`
	Address        string   `json:"address" db:"address"`
}

// HasPrice reports whether the listing carries a usable price. Rows with
// the "*" sentinel or no price at all are excluded from every result set.
func (p *Property) HasPrice() bool {
	return p.PriceTotal != nil && *p.PriceTotal >= 0
}

// GeoCoordinate is a map position in decimal degrees. Coordinates are
// derived (lookup table + jitter), cosmetic, and never persisted.
type GeoCoordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Geohash   string  `json:"geohash,omitempty"`
}

// MatchResult is a Property annotated with everything the client renders:
// derived status, map coordinates and the formatted price string.
type MatchResult struct {
	Property
	Name           string        `json:"name"`
	FormattedPrice string        `json:"formatted_price"`
	Status         Status        `json:"status"`
	Coordinates    GeoCoordinate `json:"coordinates"`
}

// SearchResult is an ordered result set. Exact is false when strict
// filtering found nothing and the fallback corpus was returned instead.
type SearchResult struct {
	Properties []MatchResult `json:"properties"`
	Total      int           `json:"total"`
	Exact      bool          `json:"exact"`
	Filters    FilterSet     `json:"filters"`
}
