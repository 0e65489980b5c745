// Package transcript holds the ordered, append-only log of chat messages.
package transcript

import (
	"fmt"
	"sync"
)

// Role tags who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleError Role = "error"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleError:
		return true
	default:
		return false
	}
}

// Message is a single transcript entry. Its identity is its index in the Store.
type Message struct {
	Role    Role
	Content string
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Role, m.Content)
}

// Store is an append-only sequence of messages in arrival order.
type Store struct {
	mu       sync.Mutex
	messages []Message
	nextID   int
	subs     map[int]func(index int, msg Message)
}

func NewStore() *Store {
	return &Store{subs: map[int]func(int, Message){}}
}

// Append adds msg to the end of the transcript and notifies subscribers with
// the index it was stored at.
func (s *Store) Append(msg Message) int {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	index := len(s.messages) - 1
	subs := make([]func(int, Message), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(index, msg)
	}
	return index
}

// Messages returns a copy of the transcript in order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Subscribe registers fn to run after every Append.
func (s *Store) Subscribe(fn func(index int, msg Message)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
