package notify

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"reportbot/internal/config"
	"reportbot/pkg/clients/telegram"
)

// Placeholder credential values shipped in the example env file. A deployment
// still carrying them has not been configured, so sending stays off.
const (
	placeholderToken  = "your_bot_token_here"
	placeholderChatID = "your_group_chat_id_here"
)

// Per-call deadlines. Connection establishment is bounded separately inside
// the telegram client.
const (
	textTimeout  = 10 * time.Second
	photoTimeout = 30 * time.Second
	albumTimeout = 60 * time.Second
)

// maxAlbumPhotos is the Bot API limit for one media group.
const maxAlbumPhotos = 10

// Dispatcher routes formatted messages to the group chat, resolving the forum
// topic from the report's location. Every send returns a bare bool: delivery
// failures are logged here and must never fail the caller.
type Dispatcher struct {
	client  telegram.Client
	chatID  string
	topics  map[string]int
	labels  []string
	enabled bool
	logger  *zap.Logger
}

// NewDispatcher builds a dispatcher from the Telegram configuration. When the
// token or chat id is missing or still a placeholder, the dispatcher is
// permanently disabled and every send becomes a no-op returning false.
func NewDispatcher(cfg config.TelegramConfig, client telegram.Client, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	enabled := true
	switch {
	case cfg.BotToken == "" || cfg.BotToken == placeholderToken:
		logger.Warn("telegram bot token not configured, sending disabled")
		enabled = false
	case cfg.ChatID == "" || cfg.ChatID == placeholderChatID:
		logger.Warn("telegram chat id not configured, sending disabled")
		enabled = false
	}

	labels := make([]string, 0, len(cfg.Topics))
	for label := range cfg.Topics {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return &Dispatcher{
		client:  client,
		chatID:  cfg.ChatID,
		topics:  cfg.Topics,
		labels:  labels,
		enabled: enabled,
		logger:  logger,
	}
}

// Enabled reports whether the dispatcher will actually send anything.
func (d *Dispatcher) Enabled() bool {
	return d.enabled
}

// ResolveTopic maps a location label to a forum topic id. Exact match first,
// then case-insensitive substring containment in either direction, scanning
// labels in sorted order so an ambiguous location always resolves to the same
// topic. A configured id of zero or below means the topic is unset; 0 routes
// to the chat's default stream.
func (d *Dispatcher) ResolveTopic(location string) int {
	if id, ok := d.topics[location]; ok {
		if id > 0 {
			return id
		}
		return 0
	}

	lowered := strings.ToLower(location)
	for _, label := range d.labels {
		loweredLabel := strings.ToLower(label)
		if strings.Contains(loweredLabel, lowered) || strings.Contains(lowered, loweredLabel) {
			if id := d.topics[label]; id > 0 {
				return id
			}
			return 0
		}
	}

	return 0
}

// SendText delivers a text message to the location's topic.
func (d *Dispatcher) SendText(ctx context.Context, location, text string) bool {
	if !d.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()

	err := d.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:  d.chatID,
		Text:    text,
		TopicID: d.ResolveTopic(location),
	})
	if err != nil {
		d.logger.Warn("telegram text delivery failed",
			zap.String("location", location), zap.Error(err))
		return false
	}
	return true
}

// SendPhoto delivers one stored photo with an HTML caption.
func (d *Dispatcher) SendPhoto(ctx context.Context, location, caption, photoPath string) bool {
	if !d.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, photoTimeout)
	defer cancel()

	err := d.client.SendPhoto(ctx, telegram.SendPhotoRequest{
		ChatID:  d.chatID,
		Caption: caption,
		TopicID: d.ResolveTopic(location),
		Path:    photoPath,
	})
	if err != nil {
		d.logger.Warn("telegram photo delivery failed",
			zap.String("location", location), zap.String("photo", photoPath), zap.Error(err))
		return false
	}
	return true
}

// SendPhotoBytes delivers one in-memory photo with an HTML caption.
func (d *Dispatcher) SendPhotoBytes(ctx context.Context, location, caption string, photo telegram.AlbumPhoto) bool {
	if !d.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, photoTimeout)
	defer cancel()

	err := d.client.SendPhoto(ctx, telegram.SendPhotoRequest{
		ChatID:   d.chatID,
		Caption:  caption,
		TopicID:  d.ResolveTopic(location),
		Content:  photo.Content,
		Filename: photo.Filename,
	})
	if err != nil {
		d.logger.Warn("telegram photo delivery failed",
			zap.String("location", location), zap.Error(err))
		return false
	}
	return true
}

// SendAlbum delivers up to ten in-memory photos as a media group, the caption
// attached to the first one. A single photo degrades to SendPhotoBytes; more
// than ten is rejected outright.
func (d *Dispatcher) SendAlbum(ctx context.Context, location, caption string, photos []telegram.AlbumPhoto) bool {
	if !d.enabled {
		return false
	}
	if len(photos) == 0 {
		d.logger.Warn("album delivery requested without photos", zap.String("location", location))
		return false
	}
	if len(photos) > maxAlbumPhotos {
		d.logger.Warn("album delivery rejected, too many photos",
			zap.String("location", location), zap.Int("count", len(photos)))
		return false
	}
	if len(photos) == 1 {
		return d.SendPhotoBytes(ctx, location, caption, photos[0])
	}

	ctx, cancel := context.WithTimeout(ctx, albumTimeout)
	defer cancel()

	err := d.client.SendMediaGroup(ctx, telegram.SendMediaGroupRequest{
		ChatID:  d.chatID,
		Caption: caption,
		TopicID: d.ResolveTopic(location),
		Photos:  photos,
	})
	if err != nil {
		d.logger.Warn("telegram album delivery failed",
			zap.String("location", location), zap.Int("count", len(photos)), zap.Error(err))
		return false
	}
	return true
}
