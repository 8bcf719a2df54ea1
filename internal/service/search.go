package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"domli-search/internal/model"
	"domli-search/internal/repository"
	"domli-search/internal/utils"
)

// Keyword sets used to match a property-type filter against the free-text
// type column. Membership is substring-based so "2-комн. квартира" still
// matches the "квартира" filter.
var propertyTypeKeywords = map[string][]string{
	"квартира": {"квартир"},
	"студия":   {"студи"},
	"пентхаус": {"пентхаус"},
	"таунхаус": {"таунхаус"},
}

// FilterOptions describes the values the corpus actually contains, for
// client-side filter widgets.
type FilterOptions struct {
	Developers    []string `json:"developers"`
	PropertyTypes []string `json:"property_types"`
	PriceMin      float64  `json:"price_min"`
	PriceMax      float64  `json:"price_max"`
	RoomOptions   []string `json:"room_options"`
}

// SearchService applies a FilterSet against the property corpus and
// annotates matches with derived status, coordinates and formatted price.
type SearchService struct {
	corpus repository.CorpusSource
	geo    *GeoResolver
	status *StatusClassifier
}

// NewSearchService creates a new search service
func NewSearchService(corpus repository.CorpusSource, geo *GeoResolver, status *StatusClassifier) *SearchService {
	return &SearchService{
		corpus: corpus,
		geo:    geo,
		status: status,
	}
}

// Search re-reads the corpus and applies every set filter field as an AND
// predicate over the valid-priced rows. When strict filtering yields
// nothing the full valid-priced corpus is returned instead, flagged as
// non-exact: the chat must never show a dead end. Results keep corpus
// order. Only a missing/empty corpus is an error.
func (s *SearchService) Search(ctx context.Context, filters model.FilterSet) (*model.SearchResult, error) {
	filters.Normalize()

	properties, err := s.corpus.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]model.Property, 0, len(properties))
	for _, p := range properties {
		if p.HasPrice() {
			valid = append(valid, p)
		}
	}

	matched := make([]model.Property, 0, len(valid))
	for _, p := range valid {
		if s.matches(&p, &filters) {
			matched = append(matched, p)
		}
	}

	exact := len(matched) > 0
	if !exact {
		matched = valid
	}

	results := make([]model.MatchResult, 0, len(matched))
	for _, p := range matched {
		results = append(results, s.annotate(p))
	}

	return &model.SearchResult{
		Properties: results,
		Total:      len(results),
		Exact:      exact,
		Filters:    filters,
	}, nil
}

// GetByID returns one annotated property by its load-time ID, or nil when
// the ID is out of range.
func (s *SearchService) GetByID(ctx context.Context, id int) (*model.MatchResult, error) {
	properties, err := s.corpus.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range properties {
		if p.ID == id {
			result := s.annotate(p)
			return &result, nil
		}
	}
	return nil, nil
}

// FilterOptions collects the distinct values present in the corpus.
func (s *SearchService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	properties, err := s.corpus.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	developers := map[string]bool{}
	types := map[string]bool{}
	opts := &FilterOptions{
		RoomOptions: []string{"1", "2", "3", "4", model.RoomsFivePlus, model.RoomsStudio},
	}
	first := true
	for _, p := range properties {
		if p.DeveloperName != "" {
			developers[p.DeveloperName] = true
		}
		if p.PropertyType != "" {
			types[p.PropertyType] = true
		}
		if p.HasPrice() {
			price := *p.PriceTotal
			if first || price < opts.PriceMin {
				opts.PriceMin = price
			}
			if first || price > opts.PriceMax {
				opts.PriceMax = price
			}
			first = false
		}
	}
	for d := range developers {
		opts.Developers = append(opts.Developers, d)
	}
	for t := range types {
		opts.PropertyTypes = append(opts.PropertyTypes, t)
	}
	sort.Strings(opts.Developers)
	sort.Strings(opts.PropertyTypes)
	return opts, nil
}

func (s *SearchService) matches(p *model.Property, filters *model.FilterSet) bool {
	if filters.PropertyType != nil && !matchesPropertyType(p.PropertyType, *filters.PropertyType) {
		return false
	}
	if filters.Rooms != nil && !matchesRooms(p, *filters.Rooms) {
		return false
	}
	if filters.MinPrice != nil && *p.PriceTotal < float64(*filters.MinPrice) {
		return false
	}
	if filters.MaxPrice != nil && *p.PriceTotal > float64(*filters.MaxPrice) {
		return false
	}
	if filters.Address != nil &&
		!strings.Contains(strings.ToLower(p.Address), strings.ToLower(*filters.Address)) {
		return false
	}
	if filters.Status != nil &&
		s.status.Classify(p.CompletionYear, p.ProjectName, p.ID) != *filters.Status {
		return false
	}
	return true
}

func matchesPropertyType(propertyType, filter string) bool {
	propertyType = strings.ToLower(propertyType)
	keywords, ok := propertyTypeKeywords[strings.ToLower(filter)]
	if !ok {
		// Unknown filter values fall back to a plain substring match
		return strings.Contains(propertyType, strings.ToLower(filter))
	}
	for _, kw := range keywords {
		if strings.Contains(propertyType, kw) {
			return true
		}
	}
	return false
}

func matchesRooms(p *model.Property, filter string) bool {
	switch filter {
	case model.RoomsStudio:
		return (p.RoomsCount != nil && *p.RoomsCount == 0) ||
			strings.Contains(strings.ToLower(p.PropertyType), "студи")
	case model.RoomsFivePlus:
		return p.RoomsCount != nil && *p.RoomsCount >= 5
	default:
		n, err := strconv.Atoi(filter)
		if err != nil {
			return false
		}
		return p.RoomsCount != nil && *p.RoomsCount == n
	}
}

func (s *SearchService) annotate(p model.Property) model.MatchResult {
	result := model.MatchResult{
		Property: p,
		Name:     "ЖК " + p.ProjectName,
		Status:   s.status.Classify(p.CompletionYear, p.ProjectName, p.ID),
	}
	result.Coordinates = s.geo.Resolve(p.ProjectName, p.DeveloperName, p.ID)
	if p.HasPrice() {
		result.FormattedPrice = utils.FormatPriceFrom(*p.PriceTotal)
	} else {
		result.FormattedPrice = utils.PriceOnRequest
	}
	return result
}
