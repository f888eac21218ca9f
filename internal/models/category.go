package models

// DefaultCategoryNames are seeded, without an owner, into an empty store.
var DefaultCategoryNames = []string{"Food", "Transport", "Entertainment", "Shopping", "Bills", "Other"}

// Category groups expenses. A nil UserID marks a default category that is
// visible to every user and read-only to all of them.
type Category struct {
	Base
	Name        string `gorm:"not null" json:"name" validate:"notblank,max=100"`
	Description string `json:"description"`
	UserID      *uint  `json:"user_id,omitempty"`
}

// IsDefault reports whether the category has no owner.
func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

// OwnedBy reports whether userID owns the category. Default categories are
// owned by nobody.
func (c *Category) OwnedBy(userID uint) bool {
	return c.UserID != nil && *c.UserID == userID
}
