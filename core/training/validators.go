package training

import (
	"github.com/go-playground/validator/v10"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

var (
	statusTag  = "progressstatus"
	statusText = "invalid progress status"

	categoryTag  = "scriptcategory"
	categoryText = "invalid script category"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(statusTag, statusText)

	_ = core.Validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(categoryTag, categoryText)
}

// statusValidation checks that the provided status is one of AllStatuses
func statusValidation(fl validator.FieldLevel) bool {
	return containsString(AllStatuses, fl.Field().String())
}

// categoryValidation checks that the provided category is one of AllCategories
func categoryValidation(fl validator.FieldLevel) bool {
	return containsString(AllCategories, fl.Field().String())
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
