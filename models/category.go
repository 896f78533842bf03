package models

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceCategory is the kind of domestic work a worker offers and a booking is made for
type ServiceCategory string

const (
	CategoryCleaning    ServiceCategory = "cleaning"
	CategoryCooking     ServiceCategory = "cooking"
	CategoryChildcare   ServiceCategory = "childcare"
	CategoryElderlyCare ServiceCategory = "elderly_care"
	CategoryDriving     ServiceCategory = "driving"
	CategoryPetCare     ServiceCategory = "pet_care"
)

// ErrUnknownCategory is returned by ParseServiceCategory for values outside the fixed set
var ErrUnknownCategory = errors.New("unknown service category")

var categoryLabels = map[ServiceCategory]string{
	CategoryCleaning:    "House Cleaning",
	CategoryCooking:     "Cooking",
	CategoryChildcare:   "Child Care",
	CategoryElderlyCare: "Elderly Care",
	CategoryDriving:     "Driving",
	CategoryPetCare:     "Pet Care",
}

// GetServiceCategories returns all available service categories
func GetServiceCategories() []ServiceCategory {
	return []ServiceCategory{
		CategoryCleaning,
		CategoryCooking,
		CategoryChildcare,
		CategoryElderlyCare,
		CategoryDriving,
		CategoryPetCare,
	}
}

// ParseServiceCategory is the single entry point used to turn caller input into a category.
func ParseServiceCategory(value string) (ServiceCategory, error) {
	category := ServiceCategory(strings.TrimSpace(value))
	if !category.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
	return category, nil
}

// ParseServiceCategories parses every value and drops duplicates, keeping the first occurrence order
func ParseServiceCategories(values []string) ([]ServiceCategory, error) {
	seen := make(map[ServiceCategory]bool, len(values))
	categories := make([]ServiceCategory, 0, len(values))
	for _, value := range values {
		category, err := ParseServiceCategory(value)
		if err != nil {
			return nil, err
		}
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories, nil
}

// IsValid checks if the category is one of the fixed values
func (c ServiceCategory) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name of the category
func (c ServiceCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}
