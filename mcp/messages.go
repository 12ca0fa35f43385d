package mcp

// Tool represents a tool definition advertised to clients
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema represents the JSON schema for tool input
type InputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// TextContent is the single content block shape this server produces.
// Tool results are always a sequence of these.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextContent creates a text content block
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// TextResult wraps one text payload into a single-block tool result.
func TextResult(text string) []TextContent {
	return []TextContent{NewTextContent(text)}
}
