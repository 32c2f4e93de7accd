package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gramm/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MaxBodyLength     = 250
	MaxBioLength      = 250
	MaxTagsLength     = 25
	MaxNameLength     = 50
	MinPasswordLength = 8
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 -]*$`)

// ParseTags splits a tag line such as "#go #sql" into its tags.
// An empty line yields no tags.
func ParseTags(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(line) > MaxTagsLength {
		return nil, models.NewValidationError("tags", "Ensure this value has at most 25 characters")
	}

	if strings.Contains(line, "  ") {
		return nil, models.NewValidationError("tags", "Tags should be separated by single space character")
	}

	tags := strings.Split(line, " ")

	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			return nil, models.NewValidationError("tags", "Tags cannot repeat for a single post")
		}
		seen[tag] = struct{}{}
	}

	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			return nil, models.NewValidationError("tags", "Hash mark should be the first symbol of each tag")
		}
		if !isLetters(tag[1:]) {
			return nil, models.NewValidationError("tags", "Only letters are allowed after a hash mark")
		}
	}

	return tags, nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeName trims and title-cases a first or last name.
func NormalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return "", models.NewValidationError(field, "This field is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return "", models.NewValidationError(field, "Ensure this value has at most 50 characters")
	case strings.Contains(name, "  "):
		return "", models.NewValidationError(field, "Double space is not allowed")
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) {
		return "", models.NewValidationError(field, "First character should be a letter")
	}

	if !namePattern.MatchString(name) {
		return "", models.NewValidationError(field, "Only letters, numbers and spaces are allowed")
	}

	return titleCase(name), nil
}

// titleCase capitalises every run of letters, so a digit or a hyphen starts
// a new word: "abc1def" becomes "Abc1Def".
func titleCase(s string) string {
	caser := cases.Title(language.English)

	var b strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}

	return b.String()
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return models.NewValidationError("bio", "Ensure this value has at most 250 characters")
	}
	return nil
}

func ValidateBody(body string) error {
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return models.NewValidationError("body", "Ensure this value has at most 250 characters")
	}
	return nil
}

func ValidatePassword(password, confirmation string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.NewValidationError("password1", "This password is too short. It must contain at least 8 characters.")
	}
	if password != confirmation {
		return models.NewValidationError("password2", "The two password fields didn't match.")
	}
	return nil
}
