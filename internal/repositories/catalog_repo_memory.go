package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"foodgram/internal/models"

	"github.com/google/uuid"
)

// MemoryIngredientRepository is an in-memory implementation of IngredientRepository.
type MemoryIngredientRepository struct {
	ingredients map[string]models.Ingredient
	mu          sync.RWMutex
}

// NewMemoryIngredientRepository creates a new instance of MemoryIngredientRepository.
func NewMemoryIngredientRepository(seed ...models.Ingredient) *MemoryIngredientRepository {
	r := &MemoryIngredientRepository{
		ingredients: make(map[string]models.Ingredient),
	}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

// List returns ingredients ordered by name.
func (r *MemoryIngredientRepository) List(_ context.Context, namePrefix string) ([]models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := strings.ToLower(namePrefix)
	list := make([]models.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		if strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
			list = append(list, ing)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// GetByID returns an ingredient by its ID.
func (r *MemoryIngredientRepository) GetByID(_ context.Context, id string) (*models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ing, ok := r.ingredients[id]
	if !ok {
		return nil, fmt.Errorf("ingredient with ID %s: %w", id, ErrNotFound)
	}
	return &ing, nil
}

// GetByIDs returns the known ingredients among ids.
func (r *MemoryIngredientRepository) GetByIDs(_ context.Context, ids []string) ([]models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ing, ok := r.ingredients[id]; ok {
			list = append(list, ing)
		}
	}
	return list, nil
}

// GetByName returns an ingredient by its exact name.
func (r *MemoryIngredientRepository) GetByName(_ context.Context, name string) (*models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ing := range r.ingredients {
		if ing.Name == name {
			return &ing, nil
		}
	}
	return nil, fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
}

// Create adds a new ingredient, rejecting duplicate names.
func (r *MemoryIngredientRepository) Create(_ context.Context, ingredient *models.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ing := range r.ingredients {
		if ing.Name == ingredient.Name {
			return fmt.Errorf("ingredient %q: %w", ingredient.Name, ErrDuplicate)
		}
	}
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	r.ingredients[ingredient.ID] = *ingredient
	return nil
}

// MemoryTagRepository is an in-memory implementation of TagRepository.
type MemoryTagRepository struct {
	tags map[string]models.Tag
	mu   sync.RWMutex
}

// NewMemoryTagRepository creates a new instance of MemoryTagRepository.
func NewMemoryTagRepository(seed ...models.Tag) *MemoryTagRepository {
	r := &MemoryTagRepository{
		tags: make(map[string]models.Tag),
	}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

// List returns all tags ordered by name.
func (r *MemoryTagRepository) List(_ context.Context) ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// GetByID returns a tag by its ID.
func (r *MemoryTagRepository) GetByID(_ context.Context, id string) (*models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag with ID %s: %w", id, ErrNotFound)
	}
	return &t, nil
}

// GetByIDs returns the known tags among ids.
func (r *MemoryTagRepository) GetByIDs(_ context.Context, ids []string) ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			list = append(list, t)
		}
	}
	return list, nil
}

// GetBySlug returns a tag by its slug.
func (r *MemoryTagRepository) GetBySlug(_ context.Context, slug string) (*models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tags {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", slug, ErrNotFound)
}

// Create adds a new tag, rejecting duplicate slugs.
func (r *MemoryTagRepository) Create(_ context.Context, tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tags {
		if t.Slug == tag.Slug {
			return fmt.Errorf("tag %q: %w", tag.Slug, ErrDuplicate)
		}
	}
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	r.tags[tag.ID] = *tag
	return nil
}
