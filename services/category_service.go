package services

import (
	"errors"
	"fmt"
	"strings"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name  string  `json:"name" validate:"required,max=50"`
	Color string  `json:"color" validate:"required,rgbhex"`
	Icon  *string `json:"icon" validate:"omitnil,max=50"`
}

type CategoryPatch struct {
	Name    *string `json:"name" validate:"omitnil,max=50"`
	Color   *string `json:"color" validate:"omitnil,rgbhex"`
	Icon    *string `json:"icon" validate:"omitnil,max=50"`
	IconSet bool    `json:"-"`
}

type CategoryServiceInterface interface {
	GetCategories(db *database.Database, userID uuid.UUID) ([]models.Category, error)
	CreateCategory(db *database.Database, userID uuid.UUID, input CategoryInput) (models.Category, error)
	UpdateCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID, patch CategoryPatch) (models.Category, error)
	DeleteCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID) error
	CreateDefaultCategories(tx *gorm.DB, userID uuid.UUID) error
}

type CategoryService struct{}

func (s *CategoryService) GetCategories(db *database.Database, userID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	if err := db.DB.Where("user_id = ?", userID).Order("created_at, name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(db *database.Database, userID uuid.UUID, input CategoryInput) (models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return models.Category{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	if err := checkCategoryName(tx, userID, input.Name, uuid.Nil); err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	category := models.Category{
		UserID: userID,
		Name:   input.Name,
		Color:  input.Color,
		Icon:   input.Icon,
	}
	if err := tx.Create(&category).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ErrCategoryExists
		}
		return models.Category{}, fmt.Errorf("creating category: %w", err)
	}

	if err := recordEvent(tx, broker.CategoryCreated, "category", userID, categoryEventData(category)); err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID, patch CategoryPatch) (models.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Category{}, validationError("Invalid input", map[string]string{"name": "is required"})
		}
		patch.Name = &name
	}
	if err := validateStruct(patch); err != nil {
		return models.Category{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("loading category: %w", err)
	}

	updates := map[string]interface{}{}
	if patch.Name != nil && *patch.Name != category.Name {
		if err := checkCategoryName(tx, userID, *patch.Name, category.ID); err != nil {
			tx.Rollback()
			return models.Category{}, err
		}
		updates["name"] = *patch.Name
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.IconSet {
		updates["icon"] = nullable(patch.Icon)
	}

	if len(updates) > 0 {
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.Category{}, ErrCategoryExists
			}
			return models.Category{}, fmt.Errorf("updating category: %w", err)
		}
		if err := recordEvent(tx, broker.CategoryUpdated, "category", userID, categoryEventData(category)); err != nil {
			tx.Rollback()
			return models.Category{}, err
		}
	}

	if err := tx.First(&category, "id = ?", category.ID).Error; err != nil {
		tx.Rollback()
		return models.Category{}, fmt.Errorf("reloading category: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes the category and leaves its tasks uncategorised.
func (s *CategoryService) DeleteCategory(db *database.Database, userID uuid.UUID, categoryID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("loading category: %w", err)
	}

	if err := tx.Model(&models.Task{}).Where("category_id = ?", category.ID).Update("category_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing task categories: %w", err)
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := recordEvent(tx, broker.CategoryDeleted, "category", userID, map[string]interface{}{
		"id": category.ID.String(),
	}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *CategoryService) CreateDefaultCategories(tx *gorm.DB, userID uuid.UUID) error {
	categories := make([]models.Category, 0, len(models.DefaultCategories))
	for _, d := range models.DefaultCategories {
		icon := d.Icon
		categories = append(categories, models.Category{
			UserID: userID,
			Name:   d.Name,
			Color:  d.Color,
			Icon:   &icon,
		})
	}
	if err := tx.Create(&categories).Error; err != nil {
		return fmt.Errorf("creating default categories: %w", err)
	}
	return nil
}

func checkCategoryName(tx *gorm.DB, userID uuid.UUID, name string, exclude uuid.UUID) error {
	query := tx.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("checking category name: %w", err)
	}
	if count > 0 {
		return ErrCategoryExists
	}
	return nil
}

func categoryEventData(category models.Category) map[string]interface{} {
	return map[string]interface{}{
		"id":      category.ID.String(),
		"user_id": category.UserID.String(),
		"name":    category.Name,
	}
}

var CategoryServiceInstance CategoryServiceInterface = &CategoryService{}
