package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/pennywise/pennywise/pkg/category"
)

var ErrUnknownCategory = errors.New("unknown category")

// maxSuggestionDistance is the largest edit distance still offered as a suggestion.
const maxSuggestionDistance = 3

// resolveCategory finds a category by id or by case-insensitive name. A near miss is reported
// with the closest name.
func resolveCategory(categories []category.Category, ref string) (category.Category, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		for _, c := range categories {
			if c.Id == id {
				return c, nil
			}
		}
		return category.Category{}, fmt.Errorf("%w: no category with id %d", ErrUnknownCategory, id)
	}

	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}

	if suggestion, ok := closestName(categories, ref); ok {
		return category.Category{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownCategory, ref, suggestion)
	}
	return category.Category{}, fmt.Errorf("%w %q", ErrUnknownCategory, ref)
}

func closestName(categories []category.Category, ref string) (string, bool) {
	needle := strings.ToLower(ref)
	best, bestDistance := "", maxSuggestionDistance+1
	for _, c := range categories {
		distance := levenshtein.ComputeDistance(needle, strings.ToLower(c.Name))
		if distance < bestDistance {
			best, bestDistance = c.Name, distance
		}
	}
	return best, best != ""
}
