package models

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownDimension is returned when a filter dimension string does not name a known dimension
var ErrUnknownDimension = errors.New("unknown filter dimension")

// Dimension identifies how the drink list is narrowed
type Dimension string

const (
	DimensionUnknown     Dimension = ""
	DimensionAlcohol     Dimension = "alcohol"
	DimensionCategory    Dimension = "category"
	DimensionGlass       Dimension = "glass"
	DimensionIngredient  Dimension = "ingredient"
	DimensionFirstLetter Dimension = "first_letter"
)

// Dimensions lists all known dimensions in display order
var Dimensions = []Dimension{
	DimensionAlcohol,
	DimensionCategory,
	DimensionGlass,
	DimensionIngredient,
	DimensionFirstLetter,
}

// dimensionAliases maps accepted spellings to dimensions
var dimensionAliases = map[string]Dimension{
	"alcohol":         DimensionAlcohol,
	"alcoholic":       DimensionAlcohol,
	"alcohol_content": DimensionAlcohol,
	"category":        DimensionCategory,
	"glass":           DimensionGlass,
	"ingredient":      DimensionIngredient,
	"first_letter":    DimensionFirstLetter,
	"letter":          DimensionFirstLetter,
}

// ParseDimension converts user input to a Dimension.
// Unrecognized input yields DimensionUnknown and ErrUnknownDimension.
func ParseDimension(s string) (Dimension, error) {
	d, ok := dimensionAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DimensionUnknown, errors.Wrapf(ErrUnknownDimension, "dimension %q", s)
	}
	return d, nil
}

// IsKnown reports whether d is one of the five filter dimensions
func (d Dimension) IsKnown() bool {
	switch d {
	case DimensionAlcohol, DimensionCategory, DimensionGlass, DimensionIngredient, DimensionFirstLetter:
		return true
	}
	return false
}

func (d Dimension) String() string {
	if d == DimensionUnknown {
		return "unknown"
	}
	return string(d)
}

// Filter is a dimension paired with the selected value
type Filter struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
}

// OptionRecord is one entry of a list.php response. Only the field matching the
// requested dimension is populated by the remote side.
type OptionRecord struct {
	Alcoholic  *string `json:"strAlcoholic,omitempty"`
	Category   *string `json:"strCategory,omitempty"`
	Glass      *string `json:"strGlass,omitempty"`
	Ingredient *string `json:"strIngredient1,omitempty"`
}

// Value returns the populated field for the dimension
func (o OptionRecord) Value(d Dimension) string {
	var v *string
	switch d {
	case DimensionAlcohol:
		v = o.Alcoholic
	case DimensionCategory:
		v = o.Category
	case DimensionGlass:
		v = o.Glass
	case DimensionIngredient:
		v = o.Ingredient
	}
	if v == nil {
		return ""
	}
	return *v
}

// OptionsResponse wraps list.php responses
type OptionsResponse struct {
	Drinks []OptionRecord `json:"drinks"`
}

// FirstLetters returns a new slice with the letters A through Z
func FirstLetters() []string {
	letters := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, string(c))
	}
	return letters
}
