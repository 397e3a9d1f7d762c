package common

import (
	"errors"
	"regexp"
	"strings"
)

// MaxSlugLength bounds a plan slug so it stays usable in URLs and indexes.
const MaxSlugLength = 255

var (
	ErrEmptySlug    = errors.New("slug cannot be empty")
	ErrReservedSlug = errors.New("slug is reserved")

	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

	// Words that collide with routes under /tariff-plans.
	reservedSlugs = map[string]struct{}{
		"active":     {},
		"all":        {},
		"deactivate": {},
		"new":        {},
	}
)

// PlanSlug derives a tariff plan slug from input, or from fallback (usually
// the plan name) when input has no usable characters. Long slugs are cut at
// the last separator before MaxSlugLength.
func PlanSlug(input, fallback string) (string, error) {
	slug := normalizeSlug(input)
	if slug == "" {
		slug = normalizeSlug(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	if _, ok := reservedSlugs[slug]; ok {
		return "", ErrReservedSlug
	}
	return slug, nil
}

func normalizeSlug(s string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) <= MaxSlugLength {
		return slug
	}
	slug = slug[:MaxSlugLength]
	if i := strings.LastIndexByte(slug, '-'); i > 0 {
		slug = slug[:i]
	}
	return slug
}
