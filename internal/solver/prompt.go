package solver

import "fmt"

const solutionSchemaPrompt = `You are a math tutor. Solve the question step by step and respond with a single JSON object, no surrounding text, in exactly this shape:
{
  "steps": [
    {"step_number": 1, "description": "...", "expression": "...", "reasoning": "..."}
  ],
  "final_answer": "...",
  "explanation": "...",
  "confidence": 0.0
}
Every step needs a description and reasoning. Confidence is between 0 and 1.`

func buildUserPrompt(question string, category string) string {
	return fmt.Sprintf("Category: %s\nQuestion: %s", category, question)
}
