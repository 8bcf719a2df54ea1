package service

import (
	"regexp"
	"strings"

	"domli-search/internal/model"
)

// IntentParser extracts a structured FilterSet from a free-text user
// message using deterministic keyword rules. It never fails: an utterance
// with no recognizable tokens yields an empty FilterSet, which the search
// treats as "match everything".
type IntentParser struct {
	priceRe      *regexp.Regexp
	priceRangeRe *regexp.Regexp
	locationRes  []*regexp.Regexp
}

// Keyword tables. Scans apply every entry in fixed order and let later
// matches overwrite earlier ones, so with conflicting keywords the last
// group listed here wins.
var (
	typeKeywords = []struct{ needle, value string }{
		{"квартир", "квартира"},
		{"студи", "студия"},
		{"пентхаус", "пентхаус"},
		{"таунхаус", "таунхаус"},
	}

	roomKeywords = []struct {
		needles []string
		value   string
	}{
		{[]string{"однокомнатн", "1-комнатн", "1 комнат"}, "1"},
		{[]string{"двухкомнатн", "2-комнатн", "2 комнат"}, "2"},
		{[]string{"трехкомнатн", "3-комнатн", "3 комнат"}, "3"},
		{[]string{"четырехкомнатн", "4-комнатн", "4 комнат"}, "4"},
	}

	statusKeywords = []struct {
		needles []string
		value   model.Status
	}{
		{[]string{"готов", "сдан"}, model.StatusCompleted},
		{[]string{"строительство", "котлован"}, model.StatusUnderConstruction},
		{[]string{"продаж"}, model.StatusForSale},
	}

	locationKeywords = []string{"центр", "район", "улица", "микрорайон", "мкр"}

	maxMarkers = []string{"до", "максимум", "не более"}
	minMarkers = []string{"от", "минимум", "не менее"}
)

// NewIntentParser creates a new intent parser
func NewIntentParser() *IntentParser {
	p := &IntentParser{
		priceRe:      regexp.MustCompile(`(\d+(?:\s?\d+)*)\s*(млн|миллион|тысяч|тыс|руб|₽)`),
		priceRangeRe: regexp.MustCompile(`(\d+(?:\s?\d+)*)\s*(?:до|-|—)\s*(\d+(?:\s?\d+)*)\s*(млн|миллион|тысяч|тыс|руб|₽)`),
	}
	for _, keyword := range locationKeywords {
		p.locationRes = append(p.locationRes,
			regexp.MustCompile(keyword+`\s+([а-яё\s]+?)(?:\s|$|,|\.)`))
	}
	return p
}

// Parse extracts a FilterSet from one utterance. Pure function: the same
// text always yields the same FilterSet.
func (p *IntentParser) Parse(text string) model.FilterSet {
	filters := model.FilterSet{}
	message := strings.ToLower(strings.TrimSpace(text))
	if message == "" {
		return filters
	}

	p.extractPropertyType(message, &filters)
	p.extractRooms(message, &filters)
	p.extractPrice(message, &filters)
	p.extractLocation(message, &filters)
	p.extractStatus(message, &filters)

	filters.Normalize()
	return filters
}

func (p *IntentParser) extractPropertyType(message string, filters *model.FilterSet) {
	for _, kw := range typeKeywords {
		if strings.Contains(message, kw.needle) {
			value := kw.value
			filters.PropertyType = &value
		}
	}
}

func (p *IntentParser) extractRooms(message string, filters *model.FilterSet) {
	for _, kw := range roomKeywords {
		for _, needle := range kw.needles {
			if strings.Contains(message, needle) {
				value := kw.value
				filters.Rooms = &value
				break
			}
		}
	}
	// "студия" doubles as a room count of zero
	if strings.Contains(message, "студи") {
		value := model.RoomsStudio
		filters.Rooms = &value
	}
}

func (p *IntentParser) extractPrice(message string, filters *model.FilterSet) {
	var prices []int

	// "от 3 до 7 миллионов" style ranges share one unit between both
	// numbers, so they are scanned before standalone amounts.
	if m := p.priceRangeRe.FindStringSubmatch(message); m != nil {
		prices = append(prices, toRubles(m[1], m[3]), toRubles(m[2], m[3]))
	} else {
		for _, m := range p.priceRe.FindAllStringSubmatch(message, -1) {
			prices = append(prices, toRubles(m[1], m[2]))
		}
	}

	if len(prices) == 0 {
		return
	}

	if len(prices) == 1 {
		value := prices[0]
		if containsAny(message, maxMarkers) {
			filters.MaxPrice = &value
		} else if containsAny(message, minMarkers) {
			filters.MinPrice = &value
		} else {
			filters.MaxPrice = &value
		}
		return
	}

	minPrice, maxPrice := prices[0], prices[0]
	for _, v := range prices[1:] {
		if v < minPrice {
			minPrice = v
		}
		if v > maxPrice {
			maxPrice = v
		}
	}
	filters.MinPrice = &minPrice
	filters.MaxPrice = &maxPrice
}

func (p *IntentParser) extractLocation(message string, filters *model.FilterSet) {
	for _, re := range p.locationRes {
		if m := re.FindStringSubmatch(message); m != nil {
			value := strings.TrimSpace(m[1])
			if value != "" {
				filters.Address = &value
				return
			}
		}
	}
}

func (p *IntentParser) extractStatus(message string, filters *model.FilterSet) {
	for _, kw := range statusKeywords {
		for _, needle := range kw.needles {
			if strings.Contains(message, needle) {
				value := kw.value
				filters.Status = &value
				break
			}
		}
	}
}

// toRubles converts a matched amount to rubles: "млн"/"миллион" scale by
// a million, "тысяч"/"тыс" by a thousand, bare currency stays as-is.
func toRubles(number, unit string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	value := 0
	for _, r := range digits {
		value = value*10 + int(r-'0')
	}

	switch {
	case strings.Contains(unit, "млн"), strings.Contains(unit, "миллион"):
		return value * 1_000_000
	case strings.Contains(unit, "тысяч"), strings.Contains(unit, "тыс"):
		return value * 1_000
	default:
		return value
	}
}

func containsAny(message string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(message, needle) {
			return true
		}
	}
	return false
}
