package models

// Venue describes a bookable location from the venues config file. The
// catalog is informational: submissions are not checked against it.
type Venue struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Capacity    int64  `yaml:"capacity" json:"capacity,omitempty"`
	SortOrder   int64  `yaml:"sort_order" json:"sort_order"`
}
