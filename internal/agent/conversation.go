package agent

import (
	"slices"

	"github.com/tmc/langchaingo/llms"
)

// Conversation is the append-only message log of one planner run.
type Conversation struct {
	messages []llms.MessageContent
}

// NewConversation starts a conversation with a system instruction.
func NewConversation(system string) *Conversation {
	c := &Conversation{}
	if system != "" {
		c.append(llms.ChatMessageTypeSystem, system)
	}
	return c
}

// AddHuman appends a user turn.
func (c *Conversation) AddHuman(text string) {
	c.append(llms.ChatMessageTypeHuman, text)
}

// AddAI appends a model turn.
func (c *Conversation) AddAI(text string) {
	c.append(llms.ChatMessageTypeAI, text)
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []llms.MessageContent {
	return slices.Clone(c.messages)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) append(role llms.ChatMessageType, text string) {
	c.messages = append(c.messages, llms.TextParts(role, text))
}
