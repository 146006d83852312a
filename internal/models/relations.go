package models

import "time"

// Favorite marks a recipe as favorited by a user. (user, recipe) is unique.
type Favorite struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ShoppingCartEntry queues a recipe in a user's shopping cart. (user, recipe) is unique.
type ShoppingCartEntry struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// Follow subscribes UserID to the recipes of AuthorID. (user, author) is unique.
type Follow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author"`
	AuthorID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// RelationKind selects one of the user-owned pair tables.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationFollow       RelationKind = "follow"
)

// CartLine is one ingredient line of a recipe in a user's cart, joined with its ingredient.
type CartLine struct {
	RecipeID        string
	Name            string
	MeasurementUnit string
	Amount          int
}

// All returns every model managed by migrations, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&IngredientLine{},
		&Favorite{},
		&ShoppingCartEntry{},
		&Follow{},
	}
}
