package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/store"
)

// ErrTitleRequired rejects category writes without a title.
var ErrTitleRequired = errors.New("category title is required")

// categoryColors is the fixed palette new categories draw from.
var categoryColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8C471", "#82E0AA", "#F1948A", "#85C1E9", "#D7BDE2",
	"#FAD7A0", "#A9DFBF", "#F9E79F", "#D5A6BD", "#A2D9CE",
}

// CategoryService owns category CRUD. Categories are weakly referenced by
// sessions, timers and countdowns; deleting one leaves those references
// dangling, and ByID reports the miss instead of failing.
type CategoryService struct {
	storage *store.Storage
}

func NewCategoryService(storage *store.Storage) *CategoryService {
	return &CategoryService{storage: storage}
}

func (c *CategoryService) Categories() []models.Category {
	return c.storage.LoadCategories()
}

// ByID looks a category up by id. The second return is false for unknown or
// deleted categories.
func (c *CategoryService) ByID(id string) (models.Category, bool) {
	for _, category := range c.storage.LoadCategories() {
		if category.ID == id {
			return category, true
		}
	}
	return models.Category{}, false
}

// Add creates a category with a random palette color.
func (c *CategoryService) Add(title, notes string) (models.Category, error) {
	if title == "" {
		return models.Category{}, ErrTitleRequired
	}

	category := models.Category{
		ID:        uuid.New().String(),
		Title:     title,
		Notes:     notes,
		Color:     categoryColors[rand.Intn(len(categoryColors))],
		CreatedAt: time.Now(),
	}

	categories := append(c.storage.LoadCategories(), category)
	if err := c.storage.SaveCategories(categories); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// Update rewrites the mutable fields of an existing category. Unknown ids
// are a no-op.
func (c *CategoryService) Update(id, title, notes string) error {
	if title == "" {
		return ErrTitleRequired
	}

	categories := c.storage.LoadCategories()
	for i := range categories {
		if categories[i].ID == id {
			categories[i].Title = title
			categories[i].Notes = notes
			return c.storage.SaveCategories(categories)
		}
	}
	return nil
}

// Delete removes a category. Sessions referencing it are kept; they render
// with a placeholder from then on.
func (c *CategoryService) Delete(id string) error {
	categories := c.storage.LoadCategories()
	remaining := categories[:0]
	for _, category := range categories {
		if category.ID != id {
			remaining = append(remaining, category)
		}
	}
	return c.storage.SaveCategories(remaining)
}
