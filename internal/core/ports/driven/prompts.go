package driven

// PromptStore provides access to the system prompts sent to the chat model.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. None of them take format placeholders.
const (
	// PromptPlanning asks the model for a JSON tool plan.
	PromptPlanning = "planning"

	// PromptFollowUp asks for more tools after the first round's context.
	PromptFollowUp = "follow_up"

	// PromptGuidance is the first system message of every completion.
	PromptGuidance = "guidance"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// If no store is set, services use their built-in prompts.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
