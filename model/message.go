package model

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the chat log. The log is append-only and
// insertion order is display order.
type Message struct {
	Role    Role
	Content string
	Events  []Event // attached to assistant replies for per-event rendering
}

// Greeting seeds the chat log when the chat view opens.
const Greeting = `Hello! I have analyzed your video. Please write a request or any keyword to retrieve relevant highlighted moments. To see all highlights, write "All".`
