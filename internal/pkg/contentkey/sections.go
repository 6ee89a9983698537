package contentkey

import "strings"

var collegeSections = []struct {
	key   string
	label string
}{
	{"overview", "Overview"},
	{"courses", "Courses"},
	{"placement", "Placements"},
	{"cutoff", "Cutoff"},
	{"ranking", "Ranking"},
	{"admission", "Admission"},
	{"scholarship", "Scholarship"},
	{"department", "Departments"},
	{"facilities", "Facilities"},
	{"gallery", "Gallery"},
	{"faq", "FAQ"},
}

// CollegeSections lists the section vocabulary of the college scope in display order.
func CollegeSections() []string {
	out := make([]string, len(collegeSections))
	for i, s := range collegeSections {
		out[i] = s.key
	}
	return out
}

func IsCollegeSection(section string) bool {
	for _, s := range collegeSections {
		if s.key == section {
			return true
		}
	}
	return false
}

// SectionLabel returns the display label used in default titles.
// Unknown sections are title-cased.
func SectionLabel(section string) string {
	for _, s := range collegeSections {
		if s.key == section {
			return s.label
		}
	}
	if section == "" {
		return ""
	}
	return strings.ToUpper(section[:1]) + section[1:]
}
