package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"reportbot/internal/config"
	"reportbot/pkg/clients/telegram"
)

// fakeClient records calls and returns a scripted error.
type fakeClient struct {
	err error

	messages    []telegram.SendMessageRequest
	photos      []telegram.SendPhotoRequest
	mediaGroups []telegram.SendMediaGroupRequest
}

func (f *fakeClient) SendMessage(_ context.Context, req telegram.SendMessageRequest) error {
	f.messages = append(f.messages, req)
	return f.err
}

func (f *fakeClient) SendPhoto(_ context.Context, req telegram.SendPhotoRequest) error {
	f.photos = append(f.photos, req)
	return f.err
}

func (f *fakeClient) SendMediaGroup(_ context.Context, req telegram.SendMediaGroupRequest) error {
	f.mediaGroups = append(f.mediaGroups, req)
	return f.err
}

func (f *fakeClient) AnswerCallbackQuery(context.Context, string, string) error { return f.err }
func (f *fakeClient) SetWebhook(context.Context, string) error                  { return f.err }
func (f *fakeClient) DeleteWebhook(context.Context) error                       { return f.err }
func (f *fakeClient) GetWebhookInfo(context.Context) (telegram.WebhookInfo, error) {
	return telegram.WebhookInfo{}, f.err
}

func testTelegramConfig() config.TelegramConfig {
	return config.TelegramConfig{
		BotToken: "123:abc",
		ChatID:   "-100200300",
		Topics: map[string]int{
			"Касса - Гагарина 48/1":            11,
			"Касса - Абдулхакима Исмаилова 51": 12,
			"Отчет - Гагарина 48/1":            21,
			"Перемещения":                      0,
		},
	}
}

func TestResolveTopicExactMatch(t *testing.T) {
	d := NewDispatcher(testTelegramConfig(), &fakeClient{}, nil)

	assert.Equal(t, 11, d.ResolveTopic("Касса - Гагарина 48/1"))
	assert.Equal(t, 21, d.ResolveTopic("Отчет - Гагарина 48/1"))
}

func TestResolveTopicSubstring(t *testing.T) {
	d := NewDispatcher(testTelegramConfig(), &fakeClient{}, nil)

	// Location contained in a configured label.
	assert.Equal(t, 12, d.ResolveTopic("Абдулхакима Исмаилова 51"))
	// Case-insensitive.
	assert.Equal(t, 12, d.ResolveTopic("абдулхакима исмаилова 51"))
}

func TestResolveTopicAmbiguousSubstring(t *testing.T) {
	d := NewDispatcher(testTelegramConfig(), &fakeClient{}, nil)

	// The bare address is contained in both the cash-desk and the report
	// labels; the sorted scan makes the cash-desk topic win every time.
	for i := 0; i < 50; i++ {
		assert.Equal(t, 11, d.ResolveTopic("Гагарина 48/1"))
	}
}

func TestResolveTopicUnknownLocation(t *testing.T) {
	d := NewDispatcher(testTelegramConfig(), &fakeClient{}, nil)

	assert.Equal(t, 0, d.ResolveTopic("Новая точка"))
}

func TestResolveTopicUnsetID(t *testing.T) {
	d := NewDispatcher(testTelegramConfig(), &fakeClient{}, nil)

	// Configured but non-positive id routes to the default stream.
	assert.Equal(t, 0, d.ResolveTopic("Перемещения"))
}

func TestDispatcherDisabledOnPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*config.TelegramConfig)
	}{
		{"empty token", func(c *config.TelegramConfig) { c.BotToken = "" }},
		{"placeholder token", func(c *config.TelegramConfig) { c.BotToken = "your_bot_token_here" }},
		{"empty chat id", func(c *config.TelegramConfig) { c.ChatID = "" }},
		{"placeholder chat id", func(c *config.TelegramConfig) { c.ChatID = "your_group_chat_id_here" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTelegramConfig()
			tt.mod(&cfg)
			client := &fakeClient{}
			d := NewDispatcher(cfg, client, nil)

			assert.False(t, d.Enabled())
			assert.False(t, d.SendText(context.Background(), "Касса - Гагарина 48/1", "hi"))
			assert.Empty(t, client.messages, "disabled dispatcher must not call the client")
		})
	}
}

func TestSendTextRoutesToTopic(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(testTelegramConfig(), client, nil)

	ok := d.SendText(context.Background(), "Касса - Гагарина 48/1", "отчет")

	assert.True(t, ok)
	assert.Len(t, client.messages, 1)
	assert.Equal(t, 11, client.messages[0].TopicID)
	assert.Equal(t, "-100200300", client.messages[0].ChatID)
}

func TestSendTextFailureReturnsFalse(t *testing.T) {
	client := &fakeClient{err: assert.AnError}
	d := NewDispatcher(testTelegramConfig(), client, nil)

	assert.False(t, d.SendText(context.Background(), "Касса - Гагарина 48/1", "отчет"))
}

func TestSendAlbumLimits(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(testTelegramConfig(), client, nil)

	photo := telegram.AlbumPhoto{Filename: "a.jpg", Content: []byte{1}}

	assert.False(t, d.SendAlbum(context.Background(), "Перемещения", "x", nil))

	eleven := make([]telegram.AlbumPhoto, 11)
	for i := range eleven {
		eleven[i] = photo
	}
	assert.False(t, d.SendAlbum(context.Background(), "Перемещения", "x", eleven))
	assert.Empty(t, client.mediaGroups)

	// One photo degrades to a plain photo send.
	assert.True(t, d.SendAlbum(context.Background(), "Перемещения", "x", []telegram.AlbumPhoto{photo}))
	assert.Len(t, client.photos, 1)
	assert.Empty(t, client.mediaGroups)

	// Two photos go out as a media group.
	assert.True(t, d.SendAlbum(context.Background(), "Перемещения", "x", []telegram.AlbumPhoto{photo, photo}))
	assert.Len(t, client.mediaGroups, 1)
}
