package chat

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type PromptTemplate struct {
	Preamble       string
	UserLabel      string
	AssistantLabel string
	TurnSeparator  string
	BlockSeparator string
	// MaxTurns keeps only the most recent history entries.
	MaxTurns int
	// StrictRoles drops turns whose role is neither user nor assistant;
	// otherwise a missing role counts as the user and any other as the assistant.
	StrictRoles bool
}

// Cue is the trailing label the model is asked to continue from.
func (t PromptTemplate) Cue() string { return t.AssistantLabel + ":" }

func (t PromptTemplate) Compose(message string, history []ChatTurn) string {
	if t.MaxTurns > 0 && len(history) > t.MaxTurns {
		history = history[len(history)-t.MaxTurns:]
	}

	lines := make([]string, 0, len(history)+1)
	for _, turn := range history {
		label, ok := t.label(turn.Role)
		if !ok {
			continue
		}
		lines = append(lines, label+": "+turn.Content)
	}
	lines = append(lines, t.UserLabel+": "+message)

	var b strings.Builder
	b.WriteString(t.Preamble)
	b.WriteString(t.BlockSeparator)
	b.WriteString(strings.Join(lines, t.TurnSeparator))
	b.WriteString(t.BlockSeparator)
	b.WriteString(t.Cue())
	return b.String()
}

func (t PromptTemplate) label(role string) (string, bool) {
	if role == "" && !t.StrictRoles {
		role = RoleUser
	}
	switch role {
	case RoleUser:
		return t.UserLabel, true
	case RoleAssistant:
		return t.AssistantLabel, true
	}
	if t.StrictRoles {
		return "", false
	}
	return t.AssistantLabel, true
}
