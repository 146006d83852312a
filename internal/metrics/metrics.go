// Package metrics exposes Prometheus counters for recipe writes, relation changes
// and shopping list exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recipe write operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Relation actions.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

var (
	// RecipesWrittenTotal counts successful recipe writes by operation.
	RecipesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_written_total",
			Help: "Total number of recipe create, update and delete operations",
		},
		[]string{"operation"},
	)

	// RelationsTotal counts favorite, cart and follow changes.
	RelationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relations_total",
			Help: "Total number of relation additions and removals",
		},
		[]string{"kind", "action"},
	)

	// ShoppingListDownloadsTotal counts generated shopping list documents.
	ShoppingListDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping list downloads",
		},
	)
)

// RecordRecipeWrite records a successful recipe write.
func RecordRecipeWrite(operation string) {
	RecipesWrittenTotal.WithLabelValues(operation).Inc()
}

// RecordRelation records a successful relation change.
func RecordRelation(kind, action string) {
	RelationsTotal.WithLabelValues(kind, action).Inc()
}

// RecordShoppingListDownload records a shopping list export.
func RecordShoppingListDownload() {
	ShoppingListDownloadsTotal.Inc()
}
