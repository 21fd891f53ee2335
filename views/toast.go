package views

import (
	"github.com/dooddles07/cyaadnu-frontend/api"
)

type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// Toast is a transient notification.
type Toast struct {
	Kind ToastKind
	Text string
}

func Success(text string) *Toast {
	return &Toast{Kind: ToastSuccess, Text: text}
}

// Failure shows the server's message verbatim when there is one, and
// fallback otherwise.
func Failure(err error, fallback string) *Toast {
	return &Toast{Kind: ToastError, Text: api.Message(err, fallback)}
}
