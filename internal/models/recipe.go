package models

import "time"

// Recipe is the aggregate root owning its ingredient lines and tag links.
type Recipe struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID    string           `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author      User             `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string           `json:"name" gorm:"type:varchar(50);not null;index"`
	Image       string           `json:"image" gorm:"type:text"`
	Text        string           `json:"text" gorm:"type:varchar(1000);not null"`
	CookingTime int              `json:"cooking_time" gorm:"not null;default:1"`
	PubDate     time.Time        `json:"pub_date" gorm:"autoCreateTime;index"`
	Tags        []Tag            `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Lines       []IngredientLine `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientLine pairs one ingredient with an amount inside a single recipe.
// Position keeps the order the author entered the lines in.
type IngredientLine struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipeID     string     `json:"recipe_id" gorm:"type:varchar(36);not null;index"`
	IngredientID string     `json:"ingredient_id" gorm:"type:varchar(36);not null;index"`
	Ingredient   Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `json:"amount" gorm:"not null;default:1"`
	Position     int        `json:"position" gorm:"not null;default:0"`
}
