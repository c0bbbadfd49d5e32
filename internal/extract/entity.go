// internal/extract/entity.go
package extract

import (
	"strings"
	"unicode/utf8"

	"pitchcraft/internal/models"
)

// CompanyName returns the best company name in text, or models.DefaultCompanyName.
func CompanyName(text string) string {
	for _, rule := range CompanyRules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if name := strings.TrimSpace(m[rule.NameGroup]); acceptableName(name) {
			return name
		}
	}

	if m := headingPattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); acceptableName(name) {
			return name
		}
	}

	lines := nonEmptyLines(text)
	if len(lines) > fallbackLines {
		lines = lines[:fallbackLines]
	}
	for _, line := range lines {
		words := wordSplit.Split(strings.TrimSpace(line), -1)
		for j := 0; j < len(words)-2; j++ {
			candidate := strings.Join(words[j:j+3], " ")
			n := utf8.RuneCountInString(candidate)
			if n > 3 && n < 30 && windowPattern.MatchString(candidate) {
				return candidate
			}
		}
	}

	return models.DefaultCompanyName
}

func acceptableName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n <= 2 || n >= 50 {
		return false
	}
	for _, stop := range StopList {
		if strings.EqualFold(name, stop) {
			return false
		}
	}
	return true
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range lineSplit.Split(text, -1) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Personnel returns every recognized name/role pair, deduplicated by
// case-insensitive name. The first role seen for a name is kept.
func Personnel(text string) []models.Person {
	people := make([]models.Person, 0)
	seen := make(map[string]struct{})

	for _, rule := range PersonnelRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[rule.NameGroup])
			role := strings.TrimSpace(m[rule.RoleGroup])
			if isRole(name) && !isRole(role) {
				name, role = role, name
			}

			if !validPersonName(name) {
				continue
			}

			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			people = append(people, models.Person{Name: name, Role: role})
		}
	}

	return people
}

func isRole(s string) bool {
	return rolePrefix.MatchString(s)
}

func validPersonName(name string) bool {
	if len(strings.Split(name, " ")) < 2 {
		return false
	}
	n := utf8.RuneCountInString(name)
	return n > 5 && n < 50
}
