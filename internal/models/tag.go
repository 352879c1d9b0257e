package models

import (
	"errors"
	"regexp"

	"gorm.io/gorm"
)

var hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ErrInvalidColor is returned when a tag color is not a #RGB or #RRGGBB code.
var ErrInvalidColor = errors.New("invalid HEX color code")

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

// ValidColor reports whether color is a 3- or 6-digit hex code with a leading '#'.
func ValidColor(color string) bool {
	return hexColor.MatchString(color)
}

// BeforeSave rejects tags with a malformed color.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if !ValidColor(t.Color) {
		return ErrInvalidColor
	}
	return nil
}

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:100;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:100;not null" json:"measurement_unit"`
}
