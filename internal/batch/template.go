// Package batch runs one templated API call per row of tabular input.
package batch

import "regexp"

// placeholderPattern matches <<NAME>> placeholders. Names are \w+ and
// matching is case-sensitive.
var placeholderPattern = regexp.MustCompile(`<<(\w+)>>`)

// Expand replaces every recognized placeholder in template with its value
// from the row mapping. Values are substituted textually, without type
// coercion. Placeholders with no mapping entry are left verbatim: a missing
// column is not an error here, it surfaces later as a per-row call failure
// if the resulting expression is malformed.
func Expand(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names in template, in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
