/* session_interface.go
 * Contains the subset of the discord session used by the command handlers, so handlers can run against a mock
 * Authors: Zachary Bower
 */

package bot

import "github.com/bwmarrin/discordgo"

// DiscordSession is implemented by *discordgo.Session and MockDiscordSession
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	// ChannelTyping shows the typing indicator while a round is being simulated
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Ensure *discordgo.Session implements DiscordSession
var _ DiscordSession = (*discordgo.Session)(nil)
