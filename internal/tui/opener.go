package tui

import (
	"context"
	"io"

	"github.com/pkg/browser"
)

// BrowserOpener opens URLs with the desktop's default handler
type BrowserOpener struct{}

func init() {
	// xdg-open and friends must not write over the terminal UI
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

func (BrowserOpener) OpenURL(_ context.Context, rawURL string) error {
	return browser.OpenURL(rawURL)
}
