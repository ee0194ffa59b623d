package driving

import "context"

// Planner asks the chat model which tools to run and gathers their output.
type Planner interface {
	// PlanAndGather returns the accumulated tool context for question.
	// It never fails; an empty string means nothing relevant was found.
	PlanAndGather(ctx context.Context, question string) string
}
