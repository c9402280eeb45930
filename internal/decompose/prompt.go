package decompose

import "fmt"

// promptTemplate instructs the model to emit a single JSON object with a
// top-level steps array. The schema and the constraints (unique ids,
// resolvable dependencies, acyclic) are spelled out because downstream
// validation rejects anything that strays from them.
const promptTemplate = `You are a senior task decomposition assistant. Break the high-level user goal below into a series of clear, executable, atomic steps.

Output must be a single JSON object strictly following this format:
{
  "steps": [
    {
      "id": "string",
      "description": "string",
      "dependencies": ["string"],
      "instructions": ["string"]
    }
  ]
}

Requirements:
1. "id" must be a string, unique across all steps (e.g. "step1", "setup_project", "process_data").
2. "description" must be a short, clear string summarizing the step.
3. "dependencies" must be a list of ids of other steps that must complete first. Use an empty list [] for steps with no dependencies.
4. "instructions" is an optional list of concrete machine-executable instructions (shell commands, code snippets). Use an empty list [] when there are none.
5. Every id referenced in "dependencies" must exist in the "steps" list, and the dependency relation must form a directed acyclic graph: no step may depend on itself, directly or transitively.
6. Choose a moderate granularity: each step should be a relatively independent, completable unit of work.
7. Return only the JSON object, with no additional text or explanation.

User goal: %q

Decompose the goal and produce the JSON now.`

// BuildPrompt renders the decomposition prompt for a goal. Pure and
// deterministic; an empty goal is passed through unrejected and simply
// yields a weak prompt.
func BuildPrompt(goal string) string {
	return fmt.Sprintf(promptTemplate, goal)
}
