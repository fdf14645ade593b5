package pathway

import "fmt"

// Category is the department label a triage decision resolves to.
type Category string

const (
	CategoryEmergency     Category = "EMERGENCY"
	CategoryRetina        Category = "RETINA"
	CategoryOphthalmology Category = "OPHTHALMOLOGY"
	CategoryOPDGeneral    Category = "OPD_GENERAL"
	CategoryRefraction    Category = "REFRACTION"
	CategoryPharmacy      Category = "PHARMACY"
	CategoryBlurredVision Category = "BLURRED_VISION"
	CategoryPain          Category = "PAIN"
	CategoryRedness       Category = "REDNESS"
)

var allCategories = map[Category]bool{
	CategoryEmergency:     true,
	CategoryRetina:        true,
	CategoryOphthalmology: true,
	CategoryOPDGeneral:    true,
	CategoryRefraction:    true,
	CategoryPharmacy:      true,
	CategoryBlurredVision: true,
	CategoryPain:          true,
	CategoryRedness:       true,
}

// ParseCategory validates a category label.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !allCategories[c] {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// conditionCategories maps semi-urgent condition labels to their department.
// Conditions not listed here resolve to OPD_GENERAL.
var conditionCategories = map[string]Category{
	"Gradual Vision Loss":         CategoryBlurredVision,
	"Eye Pain (Undifferentiated)": CategoryPain,
	"Red Eye (Stable)":            CategoryRedness,
}

// CategoryForCondition returns the department for a named semi-urgent
// condition, defaulting to OPD_GENERAL.
func CategoryForCondition(condition string) Category {
	if c, ok := conditionCategories[condition]; ok {
		return c
	}
	return CategoryOPDGeneral
}
