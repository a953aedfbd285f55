package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// questionsSchema describes a questions file: {"questions": ["...", ...]}.
var questionsSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	},
}

// LoadQuestions reads and validates a JSON questions file.
func LoadQuestions(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return ParseQuestions(raw)
}

// ParseQuestions validates raw JSON against the questions schema and returns the trimmed questions.
func ParseQuestions(raw []byte) ([]string, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(questionsSchema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid questions file: %s", strings.Join(msgs, "; "))
	}

	var doc struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode questions file: %w", err)
	}

	questions := make([]string, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("invalid questions file: no non-blank questions")
	}
	return questions, nil
}

// ResolveQuestions returns the questions to run: the questions file if configured,
// otherwise the inline list or the defaults.
func (c Config) ResolveQuestions() ([]string, error) {
	if path := strings.TrimSpace(c.QuestionsFile); path != "" {
		return LoadQuestions(path)
	}
	return c.QuestionList(), nil
}
