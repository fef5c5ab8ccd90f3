package openai

import "strings"

// taskExtractionInstruction constrains the model to the exact record shape the
// rest of the pipeline expects. Timer Category is requested but never trusted:
// the caller recomputes it from Est. Minutes.
const taskExtractionInstruction = `You are a productivity-game assistant.
Allowed clients: %CLIENTS%
Allowed projects: %PROJECTS%
For each task sentence, return JSON objects with EXACTLY these keys:
  Task, Client, Project, Est. Minutes, Timer Category, Early Bonus, Penalty, Actual Minutes, DueDate (optional)
Return a JSON object with a "tasks" array when there are multiple tasks.
Do NOT include any extra keys or prose.

TEXT:
`

// BuildExtractionPrompt builds the task extraction prompt for the given free
// text and allowed client/project vocabularies.
func BuildExtractionPrompt(text string, clients, projects []string) string {
	prompt := taskExtractionInstruction
	prompt = strings.Replace(prompt, "%CLIENTS%", strings.Join(clients, ", "), 1)
	prompt = strings.Replace(prompt, "%PROJECTS%", strings.Join(projects, ", "), 1)
	return prompt + text + "\n"
}
