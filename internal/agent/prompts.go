package agent

import (
	"fmt"
	"strings"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

func buildDecomposePrompt(request string) string {
	return strings.Join([]string{
		"You are a manager agent responsible for breaking down complex tasks into subtasks.",
		"",
		"User request: " + request,
		"",
		"Break this request down into 2-4 subtasks that can be delegated to worker agents.",
		`Return a JSON array of subtasks, each with a "task" field describing what needs to be done.`,
		"Return only the JSON array, with no surrounding text.",
		"",
		"Example output:",
		"[",
		`  {"task": "Research information about X"},`,
		`  {"task": "Analyze data from Y"},`,
		`  {"task": "Generate recommendations based on findings"}`,
		"]",
	}, "\n")
}

func buildWorkerPrompt(task string, hasTools bool) string {
	approach := "Use your knowledge and capabilities to complete this task effectively."
	if hasTools {
		approach = "Use the tools available to you to complete this task effectively."
	}
	return strings.Join([]string{
		"You are a worker agent tasked with completing a specific subtask.",
		"",
		"Your task: " + task,
		"",
		approach,
		"Provide a detailed response that addresses the task.",
	}, "\n")
}

func buildAggregatePrompt(request, results string) string {
	return strings.Join([]string{
		"You are responsible for aggregating the results of multiple subtasks into a coherent response.",
		"",
		"Original request: " + request,
		"",
		"Results from subtasks:",
		results,
		"",
		"Provide a comprehensive response that addresses the original request based on these results.",
	}, "\n")
}

// FormatResults renders results as "Task: ...\nResult: ..." blocks separated
// by a blank line, in the given order.
func FormatResults(results []schema.SubtaskResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Task: %s\nResult: %s", r.Subtask.Description(), r.Outcome.Text()))
	}
	return strings.Join(blocks, "\n\n")
}
