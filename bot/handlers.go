/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"jcup-bot/api/api"
	"jcup-bot/api/state"
	"jcup-bot/api/store"
	"jcup-bot/api/view"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("JCup Bot v1.0\n")
	res.WriteString("`$start`: Starts a new tournament, or restarts a finished one\n")
	res.WriteString("`$next`: Plays the upcoming round and shows the results\n")
	res.WriteString("`$retry`: Re-sends the last request if it failed because the JCup service could not be reached\n")
	res.WriteString("`$status`: Shows the current fixtures, results and highlights\n")
	res.WriteString("`$auto [maxRounds]`: Plays every remaining round until there is a champion\n")
	res.WriteString("`$team <name>`: Shows who a team plays next. There is fuzzy matching on names, names that contain two or more words need to be encased in \" (e.g. \"FaZe Clan\")\n")
	res.WriteString("`$champions [n]`: Shows the winners of the last n tournaments\n")
	b.send(session, message.ChannelID, res.String())
}

// startHandler handles the $start command
func (b *Bot) startHandler(session DiscordSession, message *discordgo.MessageCreate) {
	b.typing(session, message.ChannelID)
	vm, err := b.APIPtr.Start(context.Background())
	b.send(session, message.ChannelID, b.actionResponse(vm, err))
}

// nextRoundHandler handles the $next command
func (b *Bot) nextRoundHandler(session DiscordSession, message *discordgo.MessageCreate) {
	b.typing(session, message.ChannelID)
	vm, err := b.APIPtr.NextRound(context.Background())
	b.send(session, message.ChannelID, b.actionResponse(vm, err))
}

// retryHandler handles the $retry command
func (b *Bot) retryHandler(session DiscordSession, message *discordgo.MessageCreate) {
	b.typing(session, message.ChannelID)
	vm, err := b.APIPtr.Retry(context.Background())
	b.send(session, message.ChannelID, b.actionResponse(vm, err))
}

// statusHandler handles the $status command
func (b *Bot) statusHandler(session DiscordSession, message *discordgo.MessageCreate) {
	b.send(session, message.ChannelID, formatView(b.APIPtr.View()))
}

// autoPlayHandler handles the $auto command, the optional argument bounds the number of rounds played
func (b *Bot) autoPlayHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil {
		b.send(session, message.ChannelID, "Invalid arguments: check that every \" is closed")
		return
	}

	maxRounds := 0
	if len(args) > 0 {
		maxRounds, err = strconv.Atoi(args[0])
		if err != nil || maxRounds <= 0 {
			b.send(session, message.ChannelID, fmt.Sprintf("'%s' is not a valid number of rounds", args[0]))
			return
		}
	}

	b.typing(session, message.ChannelID)
	vm, err := b.APIPtr.PlayToCompletion(context.Background(), maxRounds)
	if errors.Is(err, api.ErrRoundLimit) {
		b.send(session, message.ChannelID, fmt.Sprintf("Stopped before the tournament finished: %s\n%s", err, formatView(vm)))
		return
	}
	b.send(session, message.ChannelID, b.actionResponse(vm, err))
}

// teamHandler handles the $team command
func (b *Bot) teamHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil {
		b.send(session, message.ChannelID, "Invalid arguments: check that every \" is closed")
		return
	}
	if len(args) == 0 {
		b.send(session, message.ChannelID, "Usage: `$team <name>`")
		return
	}

	res, err := b.APIPtr.FindTeam(strings.Join(args, " "))
	if err != nil {
		res = fmt.Sprintf("An error occured finding the team: %s", err)
	}
	b.send(session, message.ChannelID, res)
}

// championsHandler handles the $champions command
func (b *Bot) championsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil {
		b.send(session, message.ChannelID, "Invalid arguments: check that every \" is closed")
		return
	}

	limit := store.DefaultHistoryLimit
	if len(args) > 0 {
		limit, err = strconv.Atoi(args[0])
		if err != nil || limit <= 0 {
			b.send(session, message.ChannelID, fmt.Sprintf("'%s' is not a valid number of tournaments", args[0]))
			return
		}
	}

	summary, err := b.APIPtr.Champions(limit)
	if err != nil {
		b.Logger.Error("failed to fetch tournament history", zap.Error(err))
		b.send(session, message.ChannelID, "An error occured getting previous champions")
		return
	}
	b.send(session, message.ChannelID, formatChampions(summary))
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}
	if !startsWith(message.Content, "$") {
		return
	}
	if !b.allow(message.ChannelID) {
		b.Logger.Debug("command dropped by rate limit", zap.String("channel", message.ChannelID))
		return
	}

	// Route to appropriate handler
	switch {
	case isCommand(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case isCommand(message.Content, "$start"):
		b.startHandler(session, message)

	case isCommand(message.Content, "$next"):
		b.nextRoundHandler(session, message)

	case isCommand(message.Content, "$retry"):
		b.retryHandler(session, message)

	case isCommand(message.Content, "$status"):
		b.statusHandler(session, message)

	case isCommand(message.Content, "$auto"):
		b.autoPlayHandler(session, message)

	case isCommand(message.Content, "$team"):
		b.teamHandler(session, message)

	case isCommand(message.Content, "$champions"):
		b.championsHandler(session, message)
	}
}

// actionResponse turns the outcome of a tournament action into a message. Failed requests are already described
// by the view, rejected triggers get a short explanation instead
func (b *Bot) actionResponse(vm view.ViewModel, err error) string {
	switch {
	case err == nil:
		return formatView(vm)
	case errors.Is(err, state.ErrBusy):
		return "A request is already in progress, please wait for it to finish"
	case errors.Is(err, state.ErrRetryDisabled):
		return "The last request cannot be retried. Use `$start` to restart the tournament"
	case errors.Is(err, state.ErrInvalidTransition):
		return fmt.Sprintf("That can't be done right now (%s)\n%s", err, formatView(vm))
	}

	b.Logger.Warn("tournament action failed", zap.Error(err))
	return formatView(vm)
}

func (b *Bot) send(session DiscordSession, channelID string, content string) {
	if _, err := session.ChannelMessageSend(channelID, content); err != nil {
		b.Logger.Error("failed to send discord message", zap.String("channel", channelID), zap.Error(err))
	}
}

func (b *Bot) typing(session DiscordSession, channelID string) {
	if err := session.ChannelTyping(channelID); err != nil {
		b.Logger.Debug("failed to show typing indicator", zap.Error(err))
	}
}
