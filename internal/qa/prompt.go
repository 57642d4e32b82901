package qa

import (
	"bytes"
	"fmt"
	"text/template"
)

// SystemPrompt is sent as the system message of every generation request.
const SystemPrompt = "You are an educational content generator. Always return valid JSON arrays only, without any additional text or formatting."

const promptTemplate = `Based on the following video transcript, generate exactly {{.Count}} educational question-answer pairs in JSON format.

Requirements:
- Return ONLY a valid JSON array, no other text
- Each question should be educational and test understanding
- Each answer should be comprehensive but concise (2-4 sentences)
- Focus on main concepts, key points, and important details
- Avoid yes/no questions - make them descriptive
- Questions should encourage learning and comprehension

Strict Format (return only this JSON structure):
[
  {"question": "What is the main concept explained about...?", "answer": "The main concept is... It works by... This is important because..."},
  {"question": "How does the speaker explain...?", "answer": "According to the transcript, the process involves... The key steps are..."}
]

Video Transcript:
{{.Transcript}}`

var promptTmpl = template.Must(template.New("qa").Parse(promptTemplate))

// PromptData for template injection
type PromptData struct {
	Count      int
	Transcript string
}

// BuildPrompt renders the generation prompt for count pairs over text.
func BuildPrompt(count int, text string) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, PromptData{Count: count, Transcript: text}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
