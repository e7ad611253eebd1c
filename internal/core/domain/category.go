package domain

// Category groups transactions. Categories can be created, listed and deleted
// but never edited.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategoryList is returned by the category listing.
type CategoryList struct {
	Categories []Category
	Raw        []byte
}

// CategoryResult is returned by category creation.
type CategoryResult struct {
	Success  bool
	Message  string
	Category *Category
	Raw      []byte
}
