/* bot.go
 * Contains the Bot struct and the helpers shared by the command handlers. Requires a discord bot token and APIPtr,
 * both of which are passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"jcup-bot/api/api"
	"strings"
	"sync"
	"time"

	"github.com/go-andiamo/splitter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default pacing for commands in a single channel
const (
	DefaultCommandInterval = time.Second
	DefaultCommandBurst    = 3
)

type Bot struct {
	BotToken     string
	APIPtr       *api.API
	Logger       *zap.Logger
	CommandRate  rate.Limit
	CommandBurst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewBot creates a bot for the given token and api
// Preconditions: Receives the discord bot token, pointer to api.API and a logger (nil disables logging)
// Postconditions: Returns pointer to Bot, or error if the token or api is missing
func NewBot(botToken string, apiPtr *api.API, logger *zap.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bot{
		BotToken:     botToken,
		APIPtr:       apiPtr,
		Logger:       logger,
		CommandRate:  rate.Every(DefaultCommandInterval),
		CommandBurst: DefaultCommandBurst,
	}, nil
}

// allow reports whether another command may be handled in channelID right now
func (b *Bot) allow(channelID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limiters == nil {
		b.limiters = make(map[string]*rate.Limiter)
	}
	limiter, ok := b.limiters[channelID]
	if !ok {
		burst := b.CommandBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(b.CommandRate, burst)
		b.limiters[channelID] = limiter
	}
	return limiter.Allow()
}

// Helper function to split a message into its arguments, without the command itself
// Preconditions: Receives the message content, e.g. `$team "FaZe Clan"`
// Postconditions: Returns the arguments with surrounding quotes removed, or an error if the quotes are unbalanced
func commandArgs(content string) ([]string, error) {
	// splitter is used instead of strings.Fields so that quoted team names containing spaces stay one argument
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}

	args := []string{}
	for i, part := range parts {
		if i == 0 {
			continue
		}
		part = strings.ReplaceAll(part, "\"", "")
		part = strings.ReplaceAll(part, "“", "")
		part = strings.ReplaceAll(part, "”", "")
		part = strings.TrimSpace(part)
		if part != "" {
			args = append(args, part)
		}
	}
	return args, nil
}

// Helper function to check if a message is the given command
// Preconditions: Recieves the message content and a command, e.g. "$next"
// Postconditions: Returns true if the first word of the message is the command, else returns false
func isCommand(content string, command string) bool {
	if !startsWith(content, command) {
		return false
	}
	rest := content[len(command):]
	return rest == "" || rest[0] == ' '
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	if len(substring) > len(inputString) {
		return false
	}
	return inputString[:len(substring)] == substring
}
