package controllers

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const updatesTimeout = 60

type TgmController struct {
	tgmBot *tgbotapi.BotAPI
	chatID int64
}

func NewTgmController(
	tgmBot *tgbotapi.BotAPI,
	chatID int64,
) *TgmController {
	return &TgmController{
		tgmBot: tgmBot,
		chatID: chatID,
	}
}

func (c *TgmController) Send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)

	if _, err := c.tgmBot.Send(msg); err != nil {
		return err
	}

	return nil
}

func (c *TgmController) GetUpdates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeout

	return c.tgmBot.GetUpdatesChan(u)
}

func (c *TgmController) StopUpdates() {
	c.tgmBot.StopReceivingUpdates()
}

// CheckChatID reports whether a message comes from the operator chat.
func (c *TgmController) CheckChatID(chatID int64) bool {
	return c.chatID == chatID
}
