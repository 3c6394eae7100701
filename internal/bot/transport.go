package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Houeta/storewatch/internal/services/dispatcher"
	"gopkg.in/telebot.v4"
)

// statusRx picks the HTTP status telebot appends to errors it has no type for.
var statusRx = regexp.MustCompile(`\((\d{3})\)\s*$`)

// Transport delivers dispatcher content through the Telegram bot API.
type Transport struct {
	api API
}

// NewTransport creates a Transport sending through api.
func NewTransport(api API) *Transport {
	return &Transport{api: api}
}

// Deliver implements dispatcher.Transport.
func (t *Transport) Deliver(_ context.Context, chatID int64, content dispatcher.Content) error {
	chat := &telebot.Chat{ID: chatID}

	var err error
	switch c := content.(type) {
	case dispatcher.ContentText:
		_, err = t.api.Send(chat, c.Text, telebot.ModeHTML, telebot.NoPreview)
	case dispatcher.ContentPhoto:
		photo := &telebot.Photo{File: telebot.FromURL(c.PhotoURL), Caption: c.Caption}
		_, err = t.api.Send(chat, photo, telebot.ModeHTML)
	default:
		err = fmt.Errorf("unsupported content %T", content)
	}

	if err != nil {
		return &dispatcher.DeliveryError{Kind: classifyError(err), Err: err}
	}
	return nil
}

// classifyError maps a Telegram failure onto a delivery kind by its HTTP status.
func classifyError(err error) dispatcher.Kind {
	var code int

	var apiErr *telebot.Error
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	} else if m := statusRx.FindStringSubmatch(err.Error()); m != nil {
		code, _ = strconv.Atoi(m[1])
	}

	switch code {
	case 403: //nolint:mnd // HTTP Forbidden
		return dispatcher.KindForbidden
	case 400: //nolint:mnd // HTTP Bad Request
		return dispatcher.KindBadRequest
	default:
		return dispatcher.KindOther
	}
}
