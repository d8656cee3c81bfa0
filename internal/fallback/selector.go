// Package fallback holds the canned responses returned when the model cannot answer.
package fallback

import "strings"

// DefaultGroup is reported by Match when no keyword group applies.
const DefaultGroup = "default"

type Group struct {
	Name     string
	Keywords []string
	Response string
}

// Catalog is an ordered list of keyword groups. Groups are not mutually
// exclusive; the first group with any keyword contained in the message wins.
type Catalog struct {
	Name    string
	Groups  []Group
	Default string
}

// Match returns the winning group name and its response. Keywords are matched
// as plain substrings of the lower-cased message, not as whole words.
func (c Catalog) Match(message string) (string, string) {
	m := strings.ToLower(message)
	for _, g := range c.Groups {
		for _, kw := range g.Keywords {
			if strings.Contains(m, kw) {
				return g.Name, g.Response
			}
		}
	}
	return DefaultGroup, c.Default
}

// Select returns only the response text.
func (c Catalog) Select(message string) string {
	_, resp := c.Match(message)
	return resp
}
