package models

// Observable product fields, in comparison order.
const (
	FieldTitle  = "title"
	FieldPrice  = "price"
	FieldLink   = "link"
	FieldImage  = "image"
	FieldRating = "rating"
)

// FieldDiff - one field that differs between two observations of the same product.
type FieldDiff struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeInfo - information about the changed product.
type ChangeInfo struct {
	Key    string      `json:"key"`
	Old    Product     `json:"old"`
	New    Product     `json:"new"`
	Fields []FieldDiff `json:"fields"`
}

// Changes - comparison result: all types of changes.
type Changes struct {
	Added   []Product    `json:"added"`
	Removed []Product    `json:"removed"`
	Changed []ChangeInfo `json:"changed"`
}

// Total returns the number of entries across all three categories.
func (c Changes) Total() int {
	return len(c.Added) + len(c.Removed) + len(c.Changed)
}

// IsEmpty reports whether nothing was added, removed or changed.
func (c Changes) IsEmpty() bool {
	return c.Total() == 0
}
