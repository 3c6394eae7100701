package dispatcher

import (
	"errors"
	"fmt"
)

// ErrRecipientUnreachable is returned when the transport refuses a chat for good.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Kind classifies a transport failure.
type Kind int

const (
	KindOther Kind = iota
	KindForbidden
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindOther:
		return "other"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DeliveryError is the error returned by a Transport.
type DeliveryError struct {
	Kind Kind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind of err. Errors that are not a
// DeliveryError are KindOther.
func KindOf(err error) Kind {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindOther
}
