package domain

import "time"

type RecordID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// AgentLabel is how the companion's turns are labelled inside analysis prompts.
const AgentLabel = "Farum"

type Timestamp = time.Time

// Message is a single chat turn as produced by the chat UI.
// It is read-only input for progress tracking.
type Message struct {
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
	IsUser    bool      `json:"isUser"`
}

// Role returns who authored the message.
func (m Message) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAgent
}
