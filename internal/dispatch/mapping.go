package dispatch

import "strings"

// Field normalization maps for the insurer's spreadsheet format. Unmappable
// values become empty cells rather than errors: the insurer's intake team
// resolves those by hand, same as they did with manually filled sheets.

func mapGender(g string) string {
	s := strings.ToLower(strings.TrimSpace(g))
	switch {
	case strings.HasPrefix(s, "m"):
		return "M"
	case strings.HasPrefix(s, "f"):
		return "F"
	default:
		return ""
	}
}

func mapRelation(r string) string {
	switch strings.ToLower(strings.TrimSpace(r)) {
	case "principal", "employee", "emp", "e":
		return "E"
	case "wife", "spouse", "w":
		return "W"
	case "husband", "h":
		return "H"
	case "son", "s":
		return "S"
	case "daughter", "d":
		return "D"
	default:
		return ""
	}
}

func mapPlan(p string) string {
	s := strings.ToLower(strings.TrimSpace(p))
	switch s {
	case "ga1", "ga2", "ga3", "ga4":
		return strings.ToUpper(s)
	}
	switch {
	case strings.Contains(s, "basic"):
		return "GA1"
	case strings.Contains(s, "silver"):
		return "GA2"
	case strings.Contains(s, "gold"):
		return "GA3"
	case strings.Contains(s, "platinum"):
		return "GA4"
	default:
		return ""
	}
}
