package controllers

import (
	"context"
	"net/url"
)

//go:generate mockery --case=snake --name=ClientCtrl
//go:generate mockery --case=snake --name=CryptoCtrl
//go:generate mockery --case=snake --name=TgmCtrl
//go:generate mockery --case=snake --name=PublisherCtrl

type ClientCtrl interface {
	Send(ctx context.Context, method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error)
}

type CryptoCtrl interface {
	GetSignature(query string) string
	SignParams(params map[string]string) string
}

type TgmCtrl interface {
	Send(text string) error
	CheckChatID(chatID int64) bool
}

type PublisherCtrl interface {
	Publish(ctx context.Context, key, value []byte) error
}
