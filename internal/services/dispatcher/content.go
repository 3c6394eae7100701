package dispatcher

import (
	"context"
	"net/url"
	"unicode/utf8"

	"github.com/Houeta/storewatch/internal/services/notifier"
)

// Telegram rejects longer photo captions.
const maxCaptionLen = 1024

// Content is a message body: ContentText or ContentPhoto.
type Content interface {
	isContent()
}

// ContentText is a plain HTML message.
type ContentText struct {
	Text string
}

// ContentPhoto is an image fetched by URL with an HTML caption.
type ContentPhoto struct {
	PhotoURL string
	Caption  string
}

func (ContentText) isContent()  {}
func (ContentPhoto) isContent() {}

// Transport delivers one message to one chat. Failures should be *DeliveryError.
type Transport interface {
	Deliver(ctx context.Context, chatID int64, content Content) error
}

// contentFor picks the richest body the notification allows.
func contentFor(n notifier.Notification) Content {
	if n.TextOnly || !isPhotoURL(n.Product.Image) || utf8.RuneCountInString(n.Text) > maxCaptionLen {
		return ContentText{Text: n.Text}
	}
	return ContentPhoto{PhotoURL: n.Product.Image, Caption: n.Text}
}

func isPhotoURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
