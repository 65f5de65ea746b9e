package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/validate"
)

// Sentiment lexicons. Arbitrary hand-picked lists kept stable for
// behavioral compatibility with existing callers.
var (
	positiveWords = map[string]bool{
		"good": true, "great": true, "excellent": true, "amazing": true,
		"wonderful": true, "fantastic": true, "love": true, "happy": true,
		"awesome": true, "best": true, "beautiful": true, "perfect": true,
		"brilliant": true,
	}
	negativeWords = map[string]bool{
		"bad": true, "terrible": true, "awful": true, "horrible": true,
		"hate": true, "worst": true, "ugly": true, "disgusting": true,
		"poor": true, "sad": true, "angry": true, "disappointing": true,
		"broken": true,
	}
)

// TextProcessTool provides character, word and sentiment analytics over
// a text argument.
type TextProcessTool struct {
	logger zerolog.Logger
}

// NewTextProcessTool creates a new text-processing tool.
func NewTextProcessTool(logger zerolog.Logger) *TextProcessTool {
	return &TextProcessTool{
		logger: logger.With().Str("component", "text_process_tool").Logger(),
	}
}

// Name returns the name of the tool.
func (t *TextProcessTool) Name() string {
	return "text_process"
}

// Definition returns the tool definition.
func (t *TextProcessTool) Definition() Definition {
	return Definition{
		Name:        t.Name(),
		Description: "Analyze and transform text: counting, case folding, reversal, word statistics and sentiment",
		InputSchema: validate.Schema{
			Type: "object",
			Properties: map[string]validate.Property{
				"operation": {
					Type:        "string",
					Description: "Text operation to perform",
					Enum:        []string{"count", "uppercase", "lowercase", "reverse", "wordcount", "sentiment"},
				},
				"text": {
					Type:        "string",
					Description: "Text to process",
				},
				"options": {
					Type:        "object",
					Description: "Operation options",
					Properties: map[string]validate.Property{
						"case_sensitive":     {Type: "boolean", Default: true},
						"include_whitespace": {Type: "boolean", Default: true},
					},
				},
			},
			Required: []string{"operation", "text"},
		},
	}
}

type textOptions struct {
	CaseSensitive     bool
	IncludeWhitespace bool
}

func parseTextOptions(args map[string]any) textOptions {
	opts := textOptions{CaseSensitive: true, IncludeWhitespace: true}
	raw, ok := args["options"].(map[string]any)
	if !ok {
		return opts
	}
	if v, ok := raw["case_sensitive"].(bool); ok {
		opts.CaseSensitive = v
	}
	if v, ok := raw["include_whitespace"].(bool); ok {
		opts.IncludeWhitespace = v
	}
	return opts
}

// Call runs the requested operation and returns two content blocks: a
// compact JSON object followed by a human-readable rendering.
func (t *TextProcessTool) Call(ctx context.Context, tc ToolContext, args map[string]any) (*Response, error) {
	operation, _ := args["operation"].(string)
	text, _ := args["text"].(string)
	opts := parseTextOptions(args)

	t.logger.Debug().
		Str("request_id", tc.RequestID).
		Str("operation", operation).
		Int("text_length", len(text)).
		Msg("Processing text")

	switch operation {
	case "count":
		return objectResponse(t.count(text, opts))
	case "uppercase":
		return stringResponse(strings.ToUpper(text))
	case "lowercase":
		return stringResponse(strings.ToLower(text))
	case "reverse":
		return stringResponse(reverseGraphemes(text))
	case "wordcount":
		return objectResponse(t.wordcount(text))
	case "sentiment":
		return objectResponse(t.sentiment(text))
	default:
		return ErrorResponse(fmt.Sprintf("Unsupported operation: %s", operation)), nil
	}
}

// objectResponse serializes a structured result twice: compact for
// machine consumers and indented for humans.
func objectResponse(result map[string]any) (*Response, error) {
	compact, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return TextResponse(string(compact), string(pretty)), nil
}

// stringResponse wraps a string-typed result as {"value": ...} followed
// by the raw string.
func stringResponse(value string) (*Response, error) {
	compact, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return nil, err
	}
	return TextResponse(string(compact), value), nil
}

// count reports code-point counts, not byte counts.
func (t *TextProcessTool) count(text string, opts textOptions) map[string]any {
	total := utf8.RuneCountInString(text)
	withoutWhitespace := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			withoutWhitespace++
		}
	}

	selected := total
	if !opts.IncludeWhitespace {
		selected = withoutWhitespace
	}
	return map[string]any{
		"total":              total,
		"without_whitespace": withoutWhitespace,
		"whitespace":         total - withoutWhitespace,
		"selected_total":     selected,
	}
}

// reverseGraphemes reverses by user-perceived character so that
// multi-code-point symbols such as emoji stay intact.
func reverseGraphemes(text string) string {
	var segments []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		segments = append(segments, gr.Str())
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
	}
	return b.String()
}

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+(\s+|$)`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	wordToken      = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

func (t *TextProcessTool) wordcount(text string) map[string]any {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSpace(normalized)

	words := len(strings.Fields(normalized))

	sentences := 0
	for _, fragment := range sentenceSplit.Split(normalized, -1) {
		if strings.TrimSpace(fragment) != "" {
			sentences++
		}
	}

	paragraphs := 0
	for _, fragment := range paragraphSplit.Split(normalized, -1) {
		if strings.TrimSpace(fragment) != "" {
			paragraphs++
		}
	}

	average := 0.0
	if sentences > 0 {
		average = roundTo(float64(words)/float64(sentences), 2)
	}
	return map[string]any{
		"words":                      words,
		"sentences":                  sentences,
		"paragraphs":                 paragraphs,
		"average_words_per_sentence": average,
	}
}

func (t *TextProcessTool) sentiment(text string) map[string]any {
	tokens := wordToken.FindAllString(strings.ToLower(text), -1)

	positive, negative := 0, 0
	for _, token := range tokens {
		if positiveWords[token] {
			positive++
		}
		if negativeWords[token] {
			negative++
		}
	}

	raw := 0.0
	if positive+negative > 0 {
		raw = float64(positive-negative) / float64(positive+negative)
	}

	label := "neutral"
	if raw > 0.1 {
		label = "positive"
	} else if raw < -0.1 {
		label = "negative"
	}

	return map[string]any{
		"label":            label,
		"score":            roundTo(raw, 3),
		"confidence":       roundTo(math.Min(math.Abs(raw)*2, 1), 3),
		"positive_matches": positive,
		"negative_matches": negative,
	}
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
