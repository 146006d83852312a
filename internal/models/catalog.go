package models

// Ingredient is reference data: a named product and the unit it is measured in.
type Ingredient struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string `json:"name" gorm:"uniqueIndex;type:varchar(200);not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(20);not null"`
}

// Tag is a labeled category attached to recipes.
type Tag struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string `json:"name" gorm:"type:varchar(200);not null"`
	Color string `json:"color" gorm:"type:varchar(7);not null"` // #RRGGBB
	Slug  string `json:"slug" gorm:"uniqueIndex;type:varchar(200);not null"`
}
