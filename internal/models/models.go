package models

// Kind identifies which assistant operation a generation request serves.
// The dispatcher uses it to pick a prompt template and decoding temperature.
type Kind string

const (
	KindGeneral   Kind = "general"
	KindCode      Kind = "code"
	KindTest      Kind = "test"
	KindFix       Kind = "fix"
	KindSummarize Kind = "summarize"
	KindClassify  Kind = "classify"
	KindChat      Kind = "chat"
)

// Parameters holds the decoding controls sent with every generation request.
type Parameters struct {
	DecodingMethod string
	MaxNewTokens   int
	MinNewTokens   int
	Temperature    float64
	TopK           int
	TopP           float64
	StopSequences  []string
}

// GenerationRequest is the canonical representation of a single upstream
// call. It is constructed fresh per operation and never persisted.
type GenerationRequest struct {
	Input      string
	Kind       Kind
	Parameters Parameters
}

// Classification is the outcome of the requirements-classification
// operation: either a parsed category object, or a tagged failure carrying
// the raw model text so the caller can inspect what came back.
type Classification struct {
	Categories  map[string]any `json:"categories,omitempty"`
	Error       string         `json:"error,omitempty"`
	RawResponse string         `json:"raw_response,omitempty"`
}

// OK reports whether the classification produced a parsed category object.
func (c Classification) OK() bool {
	return c.Error == ""
}

// ChatTurn is a single message in a chat session transcript.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles used in session transcripts and history formatting.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
