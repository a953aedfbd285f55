package agent

import "fmt"

const promptTemplate = "Based on the following information, provide a concise answer in English:\n%s\nQuestion: %s\nAnswer:"

// BuildPrompt renders the generation prompt for a retrieved context and question.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}
