package service

import (
	"time"
	"unicode/utf8"

	"domli-search/internal/model"
)

// StatusClassifier derives the sale status of a property. When the
// completion year is known the rule is calendar-based; otherwise a stable
// pseudo-random bucket keyed by (id, project name) spreads the corpus
// roughly 40% completed / 35% for sale / 25% under construction.
type StatusClassifier struct {
	now func() time.Time
}

// NewStatusClassifier creates a classifier using the wall clock
func NewStatusClassifier() *StatusClassifier {
	return &StatusClassifier{now: time.Now}
}

// Classify is total: it returns exactly one of the three statuses for any
// input and has no failure path.
func (c *StatusClassifier) Classify(completionYear *int, projectName string, id int) model.Status {
	if completionYear != nil {
		currentYear := c.now().Year()
		switch {
		case *completionYear <= currentYear:
			return model.StatusCompleted
		case *completionYear == currentYear+1:
			return model.StatusUnderConstruction
		default:
			return model.StatusForSale
		}
	}

	bucket := (id + utf8.RuneCountInString(projectName)) % 100
	switch {
	case bucket < 40:
		return model.StatusCompleted
	case bucket < 75:
		return model.StatusForSale
	default:
		return model.StatusUnderConstruction
	}
}
