package model

// Room count values that are not plain integers.
const (
	RoomsStudio   = "studio"
	RoomsFivePlus = "5+"
)

// FilterSet is the structured search intent extracted from one user
// utterance (or passed explicitly by the client). Unset fields mean
// "no constraint"; an all-unset FilterSet matches everything.
type FilterSet struct {
	PropertyType *string `json:"property_type,omitempty"`
	Rooms        *string `json:"rooms,omitempty"` // "1".."4", "studio" or "5+"
	MinPrice     *int    `json:"min_price,omitempty"`
	MaxPrice     *int    `json:"max_price,omitempty"`
	Address      *string `json:"address,omitempty"`
	Status       *Status `json:"status,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f *FilterSet) IsEmpty() bool {
	return f.PropertyType == nil && f.Rooms == nil && f.MinPrice == nil &&
		f.MaxPrice == nil && f.Address == nil && f.Status == nil
}

// Normalize swaps inverted price bounds so MinPrice <= MaxPrice always
// holds when both are set.
func (f *FilterSet) Normalize() {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}
}
