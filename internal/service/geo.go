package service

import (
	"hash/fnv"
	"math/rand"

	"domli-search/internal/model"

	"github.com/mmcloughlin/geohash"
)

// Base coordinates for known residential projects in Krasnodar,
// grouped by district.
var projectLocations = map[string][2]float64{
	// Central district
	"Режиссёр":         {45.0355, 38.9753}, // ул. Старокубанская
	"The Grand Palace": {45.0400, 38.9800}, // ул. Уральская
	"Сердце":           {45.0320, 38.9720}, // ул. Школьная

	// Karasunsky district
	"Небо":      {45.0500, 39.0100}, // ул. Ярославская
	"Новелла":   {45.0450, 39.0050}, // ул. Питерская
	"Смородина": {45.0520, 39.0120},

	// Zapadny district
	"Сегодня": {45.0200, 38.9500}, // ул. Ветеранов
	"Дыхание": {45.0180, 38.9450}, // ул. Летчика Позднякова
	"Фонтаны": {45.0350, 38.9750}, // ул. Старокубанская

	// Prikubansky district
	"REEDS":           {45.0600, 39.0200}, // ул. Николая Огурцова
	"DOGMA PARK":      {45.0580, 39.0180}, // ул. Марины Цветаевой
	"Квартал САМОЛЁТ": {45.0620, 39.0220},
	"МКР САМОЛЁТ":     {45.0625, 39.0225},
	"Рекорд2":         {45.0300, 38.9600}, // ул. Новороссийская
	"ПАРК ПОБЕДЫ":     {45.0280, 38.9580},

	// Festivalny district
	"Все Свои VIP": {45.0100, 38.9300}, // ул. Колхозная
	"Все Свои Vip": {45.0100, 38.9300},
	"Тёплые края":  {45.0120, 38.9320},

	// Yuzhny district
	"Южане":       {45.0000, 38.9200},
	"Айвазовский": {45.0350, 38.9750},

	// пгт. Яблоновский
	"Традиции": {45.0800, 38.9000},
}

// Fallback areas per developer when the project is unknown.
var developerAreas = map[string][2]float64{
	"Ava Dom":   {45.0350, 38.9750}, // Central
	"ССК":       {45.0200, 38.9500}, // West
	"DOGMA":     {45.0600, 39.0200}, // East
	"СЕМЬЯ":     {45.0100, 38.9300}, // South
	"НЕОМЕТРИЯ": {45.0000, 38.9200}, // South
}

// City center of Krasnodar, the last-resort fallback.
var cityCenter = [2]float64{45.0355, 38.9753}

// GeoResolver maps a project/developer to an approximate map coordinate.
// Each property gets a small deterministic offset from the base point so
// markers of the same project do not overlap; the offset is seeded by
// (project, developer, id) and therefore stable across calls.
type GeoResolver struct{}

// NewGeoResolver creates a new geo resolver
func NewGeoResolver() *GeoResolver {
	return &GeoResolver{}
}

// Resolve always returns a finite coordinate: known project, then the
// developer's area with a wider spread, then the city center.
func (g *GeoResolver) Resolve(projectName, developerName string, id int) model.GeoCoordinate {
	rng := jitterSource(projectName, developerName, id)

	if base, ok := projectLocations[projectName]; ok {
		// ~100-150m radius around the exact project location
		return coordinate(
			base[0]+(rng.Float64()-0.5)*0.002,
			base[1]+(rng.Float64()-0.5)*0.003,
		)
	}

	base, ok := developerAreas[developerName]
	if !ok {
		base = cityCenter
	}
	// ~500-750m radius, the area is only approximately known
	return coordinate(
		base[0]+(rng.Float64()-0.5)*0.01,
		base[1]+(rng.Float64()-0.5)*0.015,
	)
}

func coordinate(lat, lng float64) model.GeoCoordinate {
	return model.GeoCoordinate{
		Latitude:  lat,
		Longitude: lng,
		Geohash:   geohash.EncodeWithPrecision(lat, lng, 9),
	}
}

func jitterSource(projectName, developerName string, id int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(projectName))
	h.Write([]byte{0})
	h.Write([]byte(developerName))
	h.Write([]byte{0, byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)})
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
