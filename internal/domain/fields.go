package domain

// Top-level record keys.
const (
	FieldID          = "id"
	FieldProjectCode = "projectCode"
	FieldProjectName = "projectName"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldCategory    = "category"
	FieldProjectType = "projectType"
	FieldLastUpdate  = "lastUpdate"
	FieldDetail      = "detail"

	SectionLocation = "location"
	SectionScope    = "scope"
	SectionDates    = "dates"
	SectionBudget   = "budget"
	SectionTeam     = "team"
)

// SystemOwnedKeys are assigned by the reconciler and stripped from
// incoming patches.
var SystemOwnedKeys = []string{FieldID, FieldProjectCode, FieldDetail}

// KnownTopLevelKeys is the set of keys that belong to the blank record.
// Anything else on a record is an extra detail added by the interpreter.
var KnownTopLevelKeys = map[string]bool{
	FieldID:          true,
	FieldProjectCode: true,
	FieldProjectName: true,
	FieldDescription: true,
	FieldPriority:    true,
	FieldCategory:    true,
	FieldProjectType: true,
	SectionLocation:  true,
	SectionScope:     true,
	SectionDates:     true,
	SectionBudget:    true,
	SectionTeam:      true,
	FieldLastUpdate:  true,
	FieldDetail:      true,
}

// IsBlank reports whether a value counts as not yet provided: absent,
// null, empty string, numeric zero, false, or an empty list or object.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case float32:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case Record:
		return len(t) == 0
	default:
		return false
	}
}

// Blank reports whether the value at path is unset.
func (r Record) Blank(path ...string) bool {
	v, _ := r.Get(path...)
	return IsBlank(v)
}

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
