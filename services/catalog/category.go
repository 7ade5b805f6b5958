package catalog

import (
	"log"

	"quizhub/models"
	"quizhub/services/apperror"

	"gorm.io/gorm"
)

// LookupCategories resolves category IDs, silently leaving out IDs that no
// longer exist.
func LookupCategories(db *gorm.DB, ids []uint) (map[uint]models.Category, error) {
	out := make(map[uint]models.Category)
	if len(ids) == 0 {
		return out, nil
	}

	var categories []models.Category
	if err := db.Where("id IN ?", uniqueIDs(ids)).Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load categories!")
	}
	for _, c := range categories {
		out[c.ID] = c
	}
	return out, nil
}

type CategoryUsage struct {
	CategoryID uint `json:"categoryId"`
	UsageCount int  `json:"usageCount"`
}

// CategoryUsages counts, for every category, the questions that reference it.
// The ID lists are JSON columns, so counting happens here rather than in SQL.
func CategoryUsages(db *gorm.DB) ([]CategoryUsage, error) {
	var categories []models.Category
	if err := db.Order("id asc").Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load categories!")
	}

	var questions []models.Question
	if err := db.Select("id", "categories").Find(&questions).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load questions!")
	}

	counts := make(map[uint]int)
	for _, q := range questions {
		for _, id := range uniqueIDs(q.CategoryIDs()) {
			counts[id]++
		}
	}

	usage := make([]CategoryUsage, 0, len(categories))
	for _, c := range categories {
		usage = append(usage, CategoryUsage{CategoryID: c.ID, UsageCount: counts[c.ID]})
	}
	return usage, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

type CategoryInput struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

func ListCategories(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.Order("id asc").Find(&categories).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to load categories!")
	}
	return categories, nil
}

// CreateCategory rejects a value that is already taken with Conflict.
func CreateCategory(db *gorm.DB, in CategoryInput) (*models.Category, error) {
	if err := valueFree(db, in.Value, 0); err != nil {
		return nil, err
	}

	c := models.Category{Value: in.Value, Label: in.Label}
	if err := db.Create(&c).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to create category!")
	}
	log.Printf("[CATALOG] Created category %q", c.Label)
	return &c, nil
}

func UpdateCategory(db *gorm.DB, id uint, in CategoryInput) (*models.Category, error) {
	var c models.Category
	if err := db.First(&c, id).Error; err != nil {
		return nil, notFoundOr(err, "Category with ID %d not found", id)
	}
	if err := valueFree(db, in.Value, id); err != nil {
		return nil, err
	}

	c.Value = in.Value
	c.Label = in.Label
	if err := db.Save(&c).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to update category!")
	}
	return &c, nil
}

// DeleteCategory leaves questions that reference the category untouched.
func DeleteCategory(db *gorm.DB, id uint) error {
	res := db.Delete(&models.Category{}, id)
	if res.Error != nil {
		return apperror.Wrap(apperror.Internal, res.Error, "Failed to delete category!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("Category with ID %d not found", id)
	}
	return nil
}

func valueFree(db *gorm.DB, value string, except uint) error {
	var n int64
	if err := db.Model(&models.Category{}).Where("value = ? AND id <> ?", value, except).Count(&n).Error; err != nil {
		return apperror.Wrap(apperror.Internal, err, "Failed to check category!")
	}
	if n > 0 {
		return apperror.Conflictf("Category with this Value already exists.")
	}
	return nil
}

// EnsureCategory returns the category with value, creating it with label
// when missing.
func EnsureCategory(db *gorm.DB, value, label string) (*models.Category, error) {
	c := models.Category{Value: value}
	if err := db.Where(models.Category{Value: value}).Attrs(models.Category{Label: label}).FirstOrCreate(&c).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to store category!")
	}
	return &c, nil
}
