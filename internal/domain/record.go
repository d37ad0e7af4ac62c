package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// StateStatusActive is the status stored on every persisted intake document.
const StateStatusActive = "active"

// Record is a single project record. It is kept as a JSON object tree so
// that keys the interpreter invents (extra details) survive merges and
// persistence unchanged.
type Record map[string]any

// State is the persisted document for one session: a status field and a
// single-element project list.
type State struct {
	Status   string   `json:"status"`
	Projects []Record `json:"projects"`
}

// NewBlankRecord returns the empty project structure a session starts with.
func NewBlankRecord() Record {
	return Record{
		FieldID:          nil,
		FieldProjectCode: nil,
		FieldProjectName: nil,
		FieldDescription: nil,
		FieldPriority:    nil,
		FieldCategory:    nil,
		FieldProjectType: nil,
		SectionLocation: map[string]any{
			"district":   nil,
			"street":     nil,
			"startPoint": nil,
		},
		SectionScope: map[string]any{
			"length":          nil,
			"width":           nil,
			"materialSummary": nil,
		},
		SectionDates: map[string]any{
			"plannedStart": nil,
			"plannedEnd":   nil,
			"duration":     nil,
		},
		SectionBudget: map[string]any{
			"total":     nil,
			"used":      "0",
			"remaining": nil,
			"currency":  DefaultCurrency,
		},
		SectionTeam: map[string]any{
			"projectManager": map[string]any{
				"name":  nil,
				"phone": nil,
			},
			"assignedTeams": []any{},
		},
		FieldLastUpdate: nil,
		FieldDetail:     map[string]any{},
	}
}

// NewBlankState wraps a blank record in a fresh persisted document.
func NewBlankState() *State {
	return &State{
		Status:   StateStatusActive,
		Projects: []Record{NewBlankRecord()},
	}
}

// Valid reports whether the state holds a usable project record.
func (s *State) Valid() bool {
	return s != nil && len(s.Projects) > 0 && s.Projects[0] != nil
}

// Project returns the session's single project record.
func (s *State) Project() Record {
	if !s.Valid() {
		return nil
	}
	return s.Projects[0]
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{Status: s.Status, Projects: make([]Record, len(s.Projects))}
	for i, p := range s.Projects {
		out.Projects[i] = p.Clone()
	}
	return out
}

// Get walks a key path and returns the value found, if any.
func (r Record) Get(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Str returns the value at path rendered as text. Missing and null values
// render as the empty string.
func (r Record) Str(path ...string) string {
	v, _ := r.Get(path...)
	return ValueString(v)
}

// Section returns the nested object stored under name, or nil when the key
// is missing or holds something other than an object.
func (r Record) Section(name string) map[string]any {
	m, _ := asObject(r[name])
	return m
}

// Set stores value at path, creating (or replacing non-object) intermediate
// nodes as needed.
func (r Record) Set(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := map[string]any(r)
	for _, key := range path[:len(path)-1] {
		next, ok := asObject(cur[key])
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Teams returns the assigned team names in order.
func (r Record) Teams() []string {
	v, _ := r.Get(SectionTeam, "assignedTeams")
	list, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return append([]string(nil), ss...)
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := ValueString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy of the record. Nested objects and lists are
// copied so the result never aliases the receiver.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(CloneObject(map[string]any(r)))
}

// CloneObject deep-copies a JSON object tree.
func CloneObject(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneObject(t)
	case Record:
		return CloneObject(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Record:
		return map[string]any(t), t != nil
	default:
		return nil, false
	}
}

// ValueString renders a decoded JSON value as display text.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, ValueString(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
