// Package transcript writes question/answer pairs to the output file and the console.
package transcript

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/util"
)

// Entry is one answered question.
type Entry struct {
	Question string
	Answer   string
}

// Write renders entries as "Q: ...\nA: ...\n\n" blocks.
func Write(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "Q: %s\nA: %s\n\n", e.Question, e.Answer); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile overwrites path with the rendered entries.
func WriteFile(path string, entries []Entry) error {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return err
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return nil
}

var (
	questionLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	answerLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Echo prints one entry to the console as "Q: ...\nA: ...\n" followed by a
// blank line. Labels are colored when w is a terminal.
func Echo(w io.Writer, e Entry) {
	fmt.Fprintf(w, "%s %s\n%s %s\n\n", questionLabel("Q:"), e.Question, answerLabel("A:"), e.Answer)
}
