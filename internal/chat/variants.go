package chat

import (
	"fmt"
	"sort"
	"strings"

	"edumark/internal/fallback"
	"edumark/internal/inference"
)

// FallbackModel is reported as the model whenever a canned response is returned.
const FallbackModel = "educational-fallback"

// Variant is everything that differed between the old per-deployment handlers.
type Variant struct {
	Name string
	// Model is the identifier echoed back to the caller on success.
	Model  string
	Prompt PromptTemplate

	// HubModel is the HuggingFace repo used when no custom endpoint is configured.
	HubModel       string
	HubParams      inference.Parameters
	EndpointParams inference.Parameters

	// Generated text of this many characters or fewer is treated as unusable.
	MinLength int
	Fallback  fallback.Catalog

	// LoadingNotice and TimeoutNotice may contain one %s, replaced by the fallback text.
	LoadingNotice string
	TimeoutNotice string
}

var studentStops = []string{"\nStudent:", "\nTeacher:", "\nUser:"}

// The preambles are sent verbatim; note the trailing space after each first
// sentence and the indented continuation lines of the assistant preamble.
const guidelines = "Your responses should be:\n" +
	"- Clear and easy to understand\n" +
	"- Educational and informative\n" +
	"- Encouraging and supportive\n" +
	"- Focused on learning and academic growth\n" +
	"- Appropriate for all school levels\n" +
	"\n" +
	"Provide practical, actionable advice for educational topics including homework help, study strategies, concept explanations, and academic guidance."

const tutorPreamble = "You are EduMarkAI, a helpful educational assistant for students and teachers. \n" + guidelines

const subjectPreamble = "You are EduMarkAI, a helpful educational assistant powered by Gemma 3 27B. \n" + guidelines

const assistantPreamble = "You are EduMark AI, an intelligent educational assistant. \n" +
	"        You help students and teachers with:\n" +
	"        - Assignment explanations and guidance\n" +
	"        - PDF document analysis and summarization\n" +
	"        - Educational content creation\n" +
	"        - Learning support and tutoring\n" +
	"        - Academic writing assistance\n" +
	"        \n" +
	"        Provide clear, helpful, and educational responses. Be encouraging and supportive."

const shortLoadingNotice = "The AI model is currently loading. Please try again in a few moments."

var noFullText = false

var variants = map[string]Variant{
	"tutor": {
		Name:  "tutor",
		Model: "gemma-7b-it",
		Prompt: PromptTemplate{
			Preamble:       tutorPreamble,
			UserLabel:      "Student/Teacher",
			AssistantLabel: "EduMarkAI",
			TurnSeparator:  "\n\n",
			BlockSeparator: "\n\n",
			MaxTurns:       6,
		},
		HubModel: "google/gemma-7b-it",
		HubParams: inference.Parameters{
			MaxNewTokens: 400, Temperature: 0.7, TopP: 0.95, DoSample: true, StopSequences: studentStops,
		},
		EndpointParams: inference.Parameters{
			MaxNewTokens: 400, Temperature: 0.7, TopP: 0.95, DoSample: true, StopSequences: studentStops,
		},
		MinLength:     10,
		Fallback:      fallback.Tutor,
		LoadingNotice: "🔄 **EduMarkAI is initializing...** \n\nWhile I'm getting ready, here's some quick help:\n\n%s\n\n*Please try your question again in a moment for a more detailed response.*",
		TimeoutNotice: "⏱️ **Response taking longer than expected.** Here's immediate help:\n\n%s",
	},
	"assistant": {
		Name:  "assistant",
		Model: "gemma-3-27b",
		Prompt: PromptTemplate{
			Preamble:       assistantPreamble,
			UserLabel:      "User",
			AssistantLabel: "Assistant",
			TurnSeparator:  "\n",
			BlockSeparator: "\n\n",
			MaxTurns:       10,
			StrictRoles:    true,
		},
		HubModel: "google/gemma-2-27b-it",
		HubParams: inference.Parameters{
			MaxNewTokens: 512, Temperature: 0.7, TopP: 0.9, DoSample: true, ReturnFullText: &noFullText,
		},
		EndpointParams: inference.Parameters{
			MaxNewTokens: 1024, Temperature: 0.7, TopP: 0.9, DoSample: true, RepetitionPenalty: 1.1,
		},
		Fallback:      fallback.Assistant,
		LoadingNotice: shortLoadingNotice,
	},
	"subject": {
		Name:  "subject",
		Model: "gemma-3-27b",
		Prompt: PromptTemplate{
			Preamble:       subjectPreamble,
			UserLabel:      "Student/Teacher",
			AssistantLabel: "EduMarkAI",
			TurnSeparator:  "\n\n",
			BlockSeparator: "\n\n",
			MaxTurns:       6,
		},
		HubModel: "google/gemma-3-27b",
		HubParams: inference.Parameters{
			MaxNewTokens: 400, Temperature: 0.7, TopP: 0.95, DoSample: true, StopSequences: studentStops,
		},
		EndpointParams: inference.Parameters{
			MaxNewTokens: 400, Temperature: 0.7, TopP: 0.95, DoSample: true, StopSequences: studentStops,
		},
		Fallback:      fallback.Subject,
		LoadingNotice: shortLoadingNotice,
	},
}

func LookupVariant(name string) (Variant, error) {
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("unknown chat variant %q (known: %s)", name, strings.Join(VariantNames(), ", "))
	}
	return v, nil
}

func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (v Variant) loadingText(fallbackText string) string {
	return notice(v.LoadingNotice, fallbackText)
}

func (v Variant) timeoutText(fallbackText string) string {
	return notice(v.TimeoutNotice, fallbackText)
}

func notice(tmpl, fallbackText string) string {
	switch {
	case tmpl == "":
		return fallbackText
	case strings.Contains(tmpl, "%s"):
		return fmt.Sprintf(tmpl, fallbackText)
	default:
		return tmpl
	}
}
