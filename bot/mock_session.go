/* mock_session.go
 * Contains a DiscordSession that records what the bot sends, for the handler tests
 * Authors: Zachary Bower
 */

package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// MockMessage is one message sent to a channel
type MockMessage struct {
	ChannelID string
	Content   string
}

// MockDiscordSession implements DiscordSession and records every call
type MockDiscordSession struct {
	mu           sync.Mutex
	SentMessages []MockMessage
	TypingIn     []string

	// SendError is returned by ChannelMessageSend when set
	SendError error
}

// NewMockDiscordSession creates an empty MockDiscordSession
func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{SentMessages: make([]MockMessage, 0)}
}

// ChannelMessageSend records the message, or returns SendError
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.SendError != nil {
		return nil, m.SendError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, MockMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{ID: "mock_message_id", ChannelID: channelID, Content: content}, nil
}

// ChannelTyping records the channel the indicator was shown in
func (m *MockDiscordSession) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TypingIn = append(m.TypingIn, channelID)
	return nil
}

// LastMessage returns the most recent message, or an empty MockMessage if nothing was sent
func (m *MockDiscordSession) LastMessage() MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}
