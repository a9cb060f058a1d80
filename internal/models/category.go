package models

type Category struct {
	CategoryID   string `json:"categoryId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`
	// ItemCount is a cache of the live menu item count; see catalog.Engine.RecountItems.
	ItemCount int `json:"itemCount"`
}
