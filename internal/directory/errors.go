package directory

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Client unwraps to exactly one of
// ErrNetwork, ErrServer or ErrNotFound.
var (
	ErrNetwork  = errors.New("network error")
	ErrServer   = errors.New("server error")
	ErrNotFound = errors.New("branch not found")

	// ErrMissingID is returned by Normalize for records without a usable id
	ErrMissingID = errors.New("record has no id")
)

// Error describes a failed directory call
type Error struct {
	Op         string
	StatusCode int
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	msg := "directory " + e.Op + ": " + e.Kind.Error()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// User-facing messages
const (
	MsgNotFound     = "Şube bulunamadı"
	MsgNetwork      = "Sunucuya bağlanılamadı. İnternet bağlantınızı kontrol edin."
	MsgListFailed   = "Şubeler yüklenemedi. Lütfen tekrar deneyin."
	MsgDetailFailed = "Şube bilgisi yüklenemedi"
	MsgUnexpected   = "Beklenmeyen bir hata oluştu"
)

// UserMessage maps err to a message for the screen. serverMsg is shown for
// server failures, which each screen words differently.
func UserMessage(err error, serverMsg string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrNetwork):
		return MsgNetwork
	case errors.Is(err, ErrServer):
		return serverMsg
	default:
		return MsgUnexpected
	}
}
