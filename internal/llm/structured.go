package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value. A non-nil error rejects the output.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// Prose and code fences around the object are ignored. Comments, trailing
// commas and bare leading decimals such as ".5" are repaired before
// decoding. An object wrapped in a top-level list is rejected.
func ExtractJSON[T any](raw string, validate SchemaValidator[T]) (T, error) {
	var zero T

	if wrappedInList(raw) {
		return zero, fmt.Errorf("%w: expected one object, got a list", ErrInvalidOutput)
	}
	obj, ok := repairObject(raw)
	if !ok {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var out T
	if err := json.Unmarshal(obj, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// wrappedInList reports whether the first bracket in s opens a list whose
// first element is an object.
func wrappedInList(s string) bool {
	i := strings.IndexAny(s, "{[")
	if i < 0 || s[i] != '[' {
		return false
	}
	rest := strings.TrimLeft(s[i+1:], " \t\r\n")
	return strings.HasPrefix(rest, "{")
}

// repairObject copies the first balanced {...} block out of s, dropping
// comments and trailing commas and adding the zero models omit in ".5".
// String contents are copied untouched.
func repairObject(s string) ([]byte, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, false
	}

	out := make([]byte, 0, len(s)-start)
	depth := 0
	inString, escaped := false, false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return nil, false
			}
			i += end + 3
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && valueBoundary(lastNonSpace(out)):
			out = append(out, '0')
		case c == '{':
			depth++
		case c == '}' || c == ']':
			out = dropTrailingComma(out)
			if c == '}' {
				depth--
				if depth == 0 {
					return append(out, c), true
				}
			}
		}
		out = append(out, c)
	}
	return nil, false
}

func dropTrailingComma(b []byte) []byte {
	i := len(b) - 1
	for i >= 0 && isSpace(b[i]) {
		i--
	}
	if i >= 0 && b[i] == ',' {
		return b[:i]
	}
	return b
}

func lastNonSpace(b []byte) byte {
	for i := len(b) - 1; i >= 0; i-- {
		if !isSpace(b[i]) {
			return b[i]
		}
	}
	return 0
}

func valueBoundary(c byte) bool {
	return c == ':' || c == ',' || c == '[' || c == '-'
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
