package interactive

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"explainer/internal/core"

	"github.com/google/uuid"
)

// Memory is the conversation history of one session: an append-only list of
// (role, content) pairs. It is never trimmed and never persisted. Memory is
// safe for concurrent use.
type Memory struct {
	id        string
	createdAt time.Time

	mu       sync.RWMutex
	messages []core.ChatMessage
}

// NewMemory creates an empty conversation.
func NewMemory() *Memory {
	return &Memory{
		id:        uuid.NewString(),
		createdAt: time.Now(),
	}
}

// ID identifies the session.
func (m *Memory) ID() string {
	return m.id
}

// Add appends one exchange: the user turn and the assistant reply.
func (m *Memory) Add(user, assistant string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages,
		core.ChatMessage{Role: core.RoleUser, Content: user},
		core.ChatMessage{Role: core.RoleAssistant, Content: assistant},
	)
}

// Messages returns a copy of the history, oldest first.
func (m *Memory) Messages() []core.ChatMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.ChatMessage(nil), m.messages...)
}

// Len returns the number of messages (two per exchange).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// RoleLabel is the history-panel label for a role.
func RoleLabel(role core.Role) string {
	if role == core.RoleUser {
		return "👤 User"
	}
	return "🤖 Bot"
}

// Transcript renders the conversation as markdown.
func (m *Memory) Transcript() string {
	messages := m.Messages()

	var content strings.Builder
	content.WriteString("# Conversation History\n\n")
	content.WriteString(fmt.Sprintf("**Session:** %s\n", m.id))
	content.WriteString(fmt.Sprintf("**Started:** %s\n\n", m.createdAt.Format("2006-01-02 15:04:05")))

	if len(messages) == 0 {
		content.WriteString("No conversation history yet.\n")
		return content.String()
	}
	for _, msg := range messages {
		content.WriteString(fmt.Sprintf("**%s:** %s\n\n", RoleLabel(msg.Role), msg.Content))
	}
	return content.String()
}
