package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dendrite/internal/domain"
)

// IncrementVariantName returns the successor of a base-26 variant name:
// a..z, then aa, ab, and so on. The last non-z letter is bumped and the
// z-run after it resets to a; an all-z name rolls over to one more letter.
func IncrementVariantName(name string) string {
	letters := []byte(name)
	for i := len(letters) - 1; i >= 0; i-- {
		if letters[i] != 'z' {
			letters[i]++
			return string(letters)
		}
		letters[i] = 'a'
	}
	return strings.Repeat("a", len(name)+1)
}

// OptionRef is a parsed incoming-option reference, e.g. "12-b-3": option 3
// of variant b on page 12.
type OptionRef struct {
	PageNumber   int
	VariantName  string
	OptionNumber int
}

func (r OptionRef) String() string {
	return fmt.Sprintf("%d-%s-%d", r.PageNumber, r.VariantName, r.OptionNumber)
}

var (
	refSeparator = regexp.MustCompile(`[^0-9a-zA-Z]+`)
	lettersOnly  = regexp.MustCompile(`^[a-z]+$`)
)

// ParseOptionRef parses an incoming-option reference. The reference splits
// on any run of non-alphanumeric characters into exactly three parts:
// page number, letters-only variant name, option position.
func ParseOptionRef(ref string) (OptionRef, error) {
	parts := refSeparator.Split(strings.TrimSpace(ref), -1)
	if len(parts) != 3 {
		return OptionRef{}, fmt.Errorf("%w: option reference %q must have three parts", domain.ErrValidation, ref)
	}

	pageNumber, err := strconv.Atoi(parts[0])
	if err != nil || pageNumber < 1 {
		return OptionRef{}, fmt.Errorf("%w: option reference %q has invalid page number", domain.ErrValidation, ref)
	}
	if !lettersOnly.MatchString(parts[1]) {
		return OptionRef{}, fmt.Errorf("%w: option reference %q has invalid variant name", domain.ErrValidation, ref)
	}
	optionNumber, err := strconv.Atoi(parts[2])
	if err != nil || optionNumber < 1 {
		return OptionRef{}, fmt.Errorf("%w: option reference %q has invalid option number", domain.ErrValidation, ref)
	}

	return OptionRef{
		PageNumber:   pageNumber,
		VariantName:  parts[1],
		OptionNumber: optionNumber,
	}, nil
}
