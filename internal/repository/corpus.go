package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"domli-search/internal/model"
	"domli-search/internal/utils"
)

// ErrCorpusUnavailable reports a missing or empty corpus. It is distinct
// from an empty match set: the former is a misconfiguration, the latter a
// normal search outcome.
var ErrCorpusUnavailable = errors.New("property corpus unavailable")

// DefaultCity is substituted when a row has no address.
const DefaultCity = "г. Краснодар"

// CorpusSource reads the full property corpus. The corpus is small and is
// re-read fresh on every call, no caching and no staleness.
type CorpusSource interface {
	ReadAll(ctx context.Context) ([]model.Property, error)
}

// buildProperty converts one raw source row (CSV cells or text columns)
// into a Property. id is the load-time identifier assigned by the reader.
func buildProperty(id int, developer, project, propertyType, rooms, area, price, year, address string) model.Property {
	p := model.Property{
		ID:            id,
		DeveloperName: strings.TrimSpace(developer),
		ProjectName:   strings.TrimSpace(project),
		PropertyType:  strings.TrimSpace(propertyType),
		Address:       strings.TrimSpace(address),
	}
	if p.Address == "" {
		p.Address = DefaultCity
	}
	if v, err := strconv.Atoi(strings.TrimSpace(rooms)); err == nil && v >= 0 {
		p.RoomsCount = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(area), 64); err == nil && v > 0 {
		p.AreaSqm = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(year)); err == nil {
		p.CompletionYear = &v
	}
	p.PriceTotal = utils.ParsePrice(price)
	return p
}
