package generator

import (
	"fmt"
	"strings"

	"ai-quiz-service/internal/domain"
)

// BuildPrompt renders the generation prompt for opts. It names every field of the
// expected reply so the parser can validate the result strictly.
func BuildPrompt(opts domain.QuizOptions) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate a quiz about %q with exactly %d %s questions at %s difficulty level.\n",
		opts.Topic, opts.QuestionCount, describeType(opts.QuestionType), opts.Difficulty))
	sb.WriteString("Return only a JSON object with the following format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "title": "Quiz title",` + "\n")
	sb.WriteString(fmt.Sprintf(`  "topic": %q,`+"\n", opts.Topic))
	sb.WriteString(fmt.Sprintf(`  "difficulty": %q,`+"\n", opts.Difficulty))
	sb.WriteString(`  "questions": [` + "\n")
	sb.WriteString("    {\n")
	sb.WriteString(`      "id": "1",` + "\n")
	sb.WriteString(`      "text": "Question text",` + "\n")
	sb.WriteString(`      "type": "multiple" or "boolean",` + "\n")
	sb.WriteString(`      "answers": [` + "\n")
	sb.WriteString(`        {"text": "Answer 1", "isCorrect": true or false},` + "\n")
	sb.WriteString(`        {"text": "Answer 2", "isCorrect": true or false},` + "\n")
	sb.WriteString(`        {"text": "Answer 3", "isCorrect": true or false},` + "\n")
	sb.WriteString(`        {"text": "Answer 4", "isCorrect": true or false}` + "\n")
	sb.WriteString("      ],\n")
	sb.WriteString(`      "explanation": "Explanation of the correct answer"` + "\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n\n")

	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- The questions array must contain exactly %d questions\n", opts.QuestionCount))
	sb.WriteString("- Every question id must be unique within the quiz\n")
	sb.WriteString(`- For boolean questions, provide exactly two answers: "True" and "False"` + "\n")
	sb.WriteString("- For multiple choice questions, provide 4 distinct options with only 1 correct answer\n")
	sb.WriteString(`- Exactly one answer per question has "isCorrect": true` + "\n")
	sb.WriteString("- Make the questions challenging and educational\n")

	return sb.String()
}

func describeType(t domain.QuestionType) string {
	switch t {
	case domain.QuestionBoolean:
		return "true/false (boolean)"
	case domain.QuestionMixed:
		return "mixed multiple choice and true/false"
	default:
		return "multiple choice"
	}
}
