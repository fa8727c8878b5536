// Package region holds the static table of regions the akinator service is
// served in and the game mode code of each theme.
package region

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidRegion = errors.New("invalid region")

// Region identifies a language and optionally a theme, ex. `en` or `fr_animals`.
type Region string

const (
	THEME_CHARACTERS = "characters"
	THEME_OBJECTS    = "objects"
	THEME_ANIMALS    = "animals"
)

// DefaultGameMode is the game mode used when a region carries no theme suffix.
const DefaultGameMode = 1

var regions = []Region{
	"en",
	"en_objects",
	"en_animals",
	"ar",
	"cn",
	"de",
	"de_animals",
	"es",
	"es_animals",
	"fr",
	"fr_objects",
	"fr_animals",
	"il",
	"it",
	"it_animals",
	"jp",
	"jp_animals",
	"kr",
	"nl",
	"pl",
	"pt",
	"ru",
	"tr",
	"id",
}

var themes = map[string]int{
	THEME_CHARACTERS: 1,
	THEME_OBJECTS:    2,
	THEME_ANIMALS:    14,
}

// All returns every supported region in a fresh slice.
func All() []Region {
	return slices.Clone(regions)
}

// Parse validates the given identifier against the supported regions.
func Parse(id string) (Region, error) {
	r := Region(id)
	if !slices.Contains(regions, r) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, id)
	}
	return r, nil
}

func (r Region) split() (string, string) {
	lang, theme, _ := strings.Cut(string(r), "_")
	return lang, theme
}

// Language is the part of the region before the theme suffix.
func (r Region) Language() string {
	lang, _ := r.split()
	return lang
}

// Theme is the theme suffix of the region, empty if there is none.
func (r Region) Theme() string {
	_, theme := r.split()
	return theme
}

// GameMode returns the numeric code the service expects for the region's theme.
func (r Region) GameMode() int {
	code, ok := themes[r.Theme()]
	if !ok {
		return DefaultGameMode
	}
	return code
}

// BaseURL is the origin every request for the region is made against.
func (r Region) BaseURL() string {
	return fmt.Sprintf("https://%s.akinator.com", r.Language())
}
