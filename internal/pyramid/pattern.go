package pyramid

import "strings"

// NormalizePattern returns pattern with a leading slash.
func NormalizePattern(pattern string) string {
	if strings.HasPrefix(pattern, "/") {
		return pattern
	}
	return "/" + pattern
}

// Placeholder is one {name} or {name:regex} replacement marker in a route
// pattern. Start and End are byte offsets of the braces, End exclusive.
type Placeholder struct {
	Name  string
	Regex string
	Start int
	End   int
}

// Placeholders parses the replacement markers in pattern. A regex may itself
// contain balanced braces, as in {year:\d{4}}.
func Placeholders(pattern string) ([]Placeholder, error) {
	var out []Placeholder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			continue
		}
		depth := 0
		end := -1
		for j := i; j < len(pattern); j++ {
			switch pattern[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, &InvalidURLPatternError{Pattern: pattern, Reason: "missing closing brace"}
		}

		body := pattern[i+1 : end]
		name, regex, _ := strings.Cut(body, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &InvalidURLPatternError{Pattern: pattern, Reason: "missing parameter name"}
		}
		out = append(out, Placeholder{Name: name, Regex: regex, Start: i, End: end + 1})
		i = end
	}
	return out, nil
}

// URLParameters returns the placeholder names in pattern, in order:
// "/user/{id}/profile/{section}" gives [id section].
func URLParameters(pattern string) ([]string, error) {
	phs, err := Placeholders(pattern)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(phs))
	for _, ph := range phs {
		names = append(names, ph.Name)
	}
	return names, nil
}
