package editor

// Prompter asks the user for a string. ok is false when the user cancels.
type Prompter interface {
	Prompt(label, initial string) (value string, ok bool)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(label, initial string) (string, bool)

func (f PromptFunc) Prompt(label, initial string) (string, bool) { return f(label, initial) }

// cancelPrompter is used when no prompter is configured.
type cancelPrompter struct{}

func (cancelPrompter) Prompt(string, string) (string, bool) { return "", false }
