package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTutorGroupOrder(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Hello there", "greeting"},
		{"Can you assist me", "help"},
		{"geometry proofs", "math"},
		{"chemistry lab report", "science"},
		{"my english essay", "writing"},
		{"exam tomorrow", "study"},
		{"the government of rome", "history"},
		{"homework due friday", "homework"},
		{"I am so frustrated", "encouragement"},
		{"photosynthesis", DefaultGroup},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, _ := Tutor.Match(tt.msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstGroupWins(t *testing.T) {
	// math is checked before writing in both catalogs
	g, resp := Tutor.Match("algebra essay")
	assert.Equal(t, "math", g)
	assert.True(t, strings.HasPrefix(resp, "🧮 **Math Help Available!**"))

	g, _ = Subject.Match("ALGEBRA and an Essay")
	assert.Equal(t, "math", g)

	// "assignment" belongs to writing, which precedes math here
	g, _ = Assistant.Match("solve this assignment")
	assert.Equal(t, "writing", g)
}

func TestSubstringMatching(t *testing.T) {
	// "hi" inside "this" lands on the greeting group
	g, _ := Tutor.Match("what does this mean for homework")
	assert.Equal(t, "greeting", g)

	g, _ = Subject.Match("a past event")
	assert.Equal(t, "history", g)
}

func TestAssistantExplain(t *testing.T) {
	resp := Assistant.Select("Explain photosynthesis in simple terms")
	assert.Contains(t, resp, "happy to help explain")
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, Tutor.Default, Tutor.Select("zzz"))
	assert.Equal(t, Assistant.Default, Assistant.Select("zzz"))
	assert.Equal(t, Subject.Default, Subject.Select("zzz"))
	for _, c := range []Catalog{Tutor, Assistant, Subject} {
		assert.NotEmpty(t, c.Default, c.Name)
		for _, g := range c.Groups {
			assert.NotEmpty(t, g.Response, c.Name+"/"+g.Name)
		}
	}
}
