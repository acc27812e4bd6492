package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Transport implementa service.Messenger sobre discordgo. Todo pasa por
// acá: los services no ven la sesión de Discord.
type Transport struct {
	s       *discordgo.Session
	guildID string
}

func NewTransport(s *discordgo.Session, guildID string) *Transport {
	return &Transport{s: s, guildID: guildID}
}

func (t *Transport) SendDM(_ context.Context, userID, content string) (string, error) {
	ch, err := t.s.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("abrir DM con %s: %w", userID, err)
	}
	msg, err := t.s.ChannelMessageSend(ch.ID, content)
	if err != nil {
		return "", fmt.Errorf("DM a %s: %w", userID, err)
	}
	return msg.ID, nil
}

// ReactDM agrega las reacciones-menú a un mensaje de DM, en orden.
func (t *Transport) ReactDM(_ context.Context, userID, messageID string, emojis []string) error {
	ch, err := t.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("abrir DM con %s: %w", userID, err)
	}
	for _, e := range emojis {
		if err := t.s.MessageReactionAdd(ch.ID, messageID, e); err != nil {
			return fmt.Errorf("reaccionar %s: %w", e, err)
		}
	}
	return nil
}

func (t *Transport) SendChannelMessage(_ context.Context, channelID, content string) (string, error) {
	msg, err := t.s.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("mensaje al canal %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (t *Transport) React(_ context.Context, channelID, messageID string, emojis []string) error {
	for _, e := range emojis {
		if err := t.s.MessageReactionAdd(channelID, messageID, e); err != nil {
			return fmt.Errorf("reaccionar %s: %w", e, err)
		}
	}
	return nil
}

// CreateScopedChannel crea un canal de texto visible solo para los
// jugadores (y el bot). El @everyone del guild queda afuera.
func (t *Transport) CreateScopedChannel(_ context.Context, name string, userIDs []string) (string, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   t.guildID, // rol @everyone = ID del guild
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
	}
	for _, uid := range userIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    uid,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}
	if t.s.State != nil && t.s.State.User != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    t.s.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionManageChannels,
		})
	}

	ch, err := t.s.GuildChannelCreateComplex(t.guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", fmt.Errorf("crear canal %s: %w", name, err)
	}
	return ch.ID, nil
}

func (t *Transport) DeleteChannel(_ context.Context, channelID string) error {
	if _, err := t.s.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("borrar canal %s: %w", channelID, err)
	}
	return nil
}

func (t *Transport) DeleteMessage(_ context.Context, channelID, messageID string) error {
	if err := t.s.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("borrar mensaje %s: %w", messageID, err)
	}
	return nil
}
