package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// ReferenceService serves and loads tags and ingredients.
type ReferenceService struct {
	db *gorm.DB
}

func NewReferenceService(db *gorm.DB) *ReferenceService {
	return &ReferenceService{db: db}
}

func (s *ReferenceService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *ReferenceService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return &tag, nil
}

// ListIngredients returns all ingredients whose name starts with prefix.
// The match is case-sensitive on every backend.
func (s *ReferenceService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("id DESC")
	if prefix != "" {
		q = q.Where("SUBSTR(name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *ReferenceService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

// ImportStats counts what an import did.
type ImportStats struct {
	Created int
	Skipped int
}

func (st *ImportStats) count(created bool) {
	if created {
		st.Created++
	} else {
		st.Skipped++
	}
}

// createMissing inserts row unless a row matching the condition exists.
func createMissing(tx *gorm.DB, row interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(row).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ImportIngredients loads "name,unit" rows. Rows whose (name, unit) pair
// already exists are skipped.
func (s *ReferenceService) ImportIngredients(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for line := 1; ; line++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
			if name == "" || unit == "" {
				return fmt.Errorf("line %d: name and unit are required", line)
			}

			created, err := createMissing(tx, &models.Ingredient{Name: name, MeasurementUnit: unit},
				"name = ? AND measurement_unit = ?", name, unit)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			stats.count(created)
		}
	})
	if err != nil {
		return ImportStats{}, err
	}

	log.Printf("[ReferenceService] Imported ingredients: %d created, %d skipped", stats.Created, stats.Skipped)
	return stats, nil
}

// ImportTags loads "name,color,slug" rows. Rows whose slug already exists are skipped.
func (s *ReferenceService) ImportTags(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for line := 1; ; line++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			tag := models.Tag{
				Name:  strings.TrimSpace(record[0]),
				Color: strings.TrimSpace(record[1]),
				Slug:  strings.TrimSpace(record[2]),
			}
			if !models.ValidColor(tag.Color) {
				return fmt.Errorf("line %d: %w: %q", line, models.ErrInvalidColor, tag.Color)
			}

			created, err := createMissing(tx, &tag, "slug = ?", tag.Slug)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			stats.count(created)
		}
	})
	if err != nil {
		return ImportStats{}, err
	}

	log.Printf("[ReferenceService] Imported tags: %d created, %d skipped", stats.Created, stats.Skipped)
	return stats, nil
}
