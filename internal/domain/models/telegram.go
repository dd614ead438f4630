package models

// TelegramUpdate is the webhook payload pushed by the Bot API. Only the
// fields the bot reacts to are mapped.
type TelegramUpdate struct {
	UpdateID      int64                  `json:"update_id"`
	Message       *TelegramMessage       `json:"message"`
	CallbackQuery *TelegramCallbackQuery `json:"callback_query"`
}

// TelegramMessage is an inbound chat message.
type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from"`
	Chat      TelegramChat  `json:"chat"`
	Text      string        `json:"text"`
}

// TelegramChat identifies the chat a message arrived in.
type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// TelegramUser identifies the sender of a message or callback.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// TelegramCallbackQuery is an inline keyboard button press.
type TelegramCallbackQuery struct {
	ID   string           `json:"id"`
	From *TelegramUser    `json:"from"`
	Data string           `json:"data"`
	Msg  *TelegramMessage `json:"message"`
}
