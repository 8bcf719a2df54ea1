package handler

import (
	"errors"
	"net/http"
	"strconv"

	"domli-search/internal/model"
	"domli-search/internal/repository"
	"domli-search/internal/service"

	"github.com/gin-gonic/gin"
)

// English property-type aliases accepted by the recommendations endpoint.
var propertyTypeAliases = map[string]string{
	"apartment":  "квартира",
	"studio":     "студия",
	"penthouse":  "пентхаус",
	"townhouse":  "таунхаус",
	"commercial": "коммерческая",
}

// PropertiesHandler handles property catalog HTTP requests
type PropertiesHandler struct {
	searchService *service.SearchService
}

// NewPropertiesHandler creates a new properties handler
func NewPropertiesHandler(searchService *service.SearchService) *PropertiesHandler {
	return &PropertiesHandler{searchService: searchService}
}

// MapData handles GET /api/v1/properties/map-data - every priced property
// with its map coordinate.
func (h *PropertiesHandler) MapData(c *gin.Context) {
	result, err := h.searchService.Search(c.Request.Context(), model.FilterSet{})
	if err != nil {
		h.corpusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": result.Properties,
		"total":      result.Total,
	})
}

// Recommendations handles GET /api/v1/properties/recommendations
func (h *PropertiesHandler) Recommendations(c *gin.Context) {
	var filters model.FilterSet

	if t := c.Query("property_type"); t != "" {
		value := t
		if russian, ok := propertyTypeAliases[value]; ok {
			value = russian
		}
		filters.PropertyType = &value
	}
	if rooms := c.Query("rooms"); rooms != "" {
		filters.Rooms = &rooms
	}
	if budget := c.Query("budget"); budget != "" {
		millions, err := strconv.ParseFloat(budget, 64)
		if err != nil || millions <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget: " + budget})
			return
		}
		maxPrice := int(millions * 1_000_000)
		filters.MaxPrice = &maxPrice
	}

	result, err := h.searchService.Search(c.Request.Context(), filters)
	if err != nil {
		h.corpusError(c, err)
		return
	}

	message := "Рекомендации основаны на ваших предпочтениях"
	if !result.Exact {
		message = "Показаны популярные объекты (не найдено точных совпадений)"
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": result.Properties,
		"total":      result.Total,
		"exact":      result.Exact,
		"message":    message,
	})
}

// GetByID handles GET /api/v1/properties/:id
func (h *PropertiesHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id: " + c.Param("id")})
		return
	}

	property, err := h.searchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.corpusError(c, err)
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}

// FilterOptions handles GET /api/v1/properties/filters/options
func (h *PropertiesHandler) FilterOptions(c *gin.Context) {
	opts, err := h.searchService.FilterOptions(c.Request.Context())
	if err != nil {
		h.corpusError(c, err)
		return
	}

	c.JSON(http.StatusOK, opts)
}

func (h *PropertiesHandler) corpusError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrCorpusUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Property database is unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed: " + err.Error()})
}
