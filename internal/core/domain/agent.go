package domain

// Conversation roles understood by the chat model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of the agent conversation.
// The messages after the user question form the agent scratchpad.
type Message struct {
	// Role is one of RoleSystem, RoleUser, RoleAssistant or RoleTool.
	Role string

	// Content is the message text. Empty for assistant messages that
	// only carry tool calls.
	Content string

	// ToolCalls are the invocations requested by an assistant message.
	ToolCalls []ToolCall

	// ToolCallID links a tool message to the call it answers.
	ToolCallID string
}

// ToolCall is a request from the model to run a tool.
type ToolCall struct {
	// ID is assigned by the model and echoed back in the tool message.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the raw JSON object of arguments.
	Arguments string
}

// ToolDefinition advertises a tool to the model.
type ToolDefinition struct {
	Name        string
	Description string

	// Parameters is a JSON schema object describing the arguments.
	Parameters map[string]any
}

// Decision is the outcome of one model turn: either tool calls or a final answer.
type Decision struct {
	ToolCalls   []ToolCall
	FinalAnswer string
}

// IsFinal reports whether the model produced its answer.
func (d Decision) IsFinal() bool {
	return len(d.ToolCalls) == 0
}
