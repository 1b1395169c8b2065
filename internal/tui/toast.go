// Package tui renders terminal widgets for notifications.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/astra-bc/kansatsu/internal/core/notify"
	"github.com/astra-bc/kansatsu/internal/core/styles"
)

const toastWidth = 50

// RenderToast renders a single notification with its kind's icon and style.
func RenderToast(n notify.Notification, width int) string {
	var icon string
	var style lipgloss.Style

	switch n.Kind {
	case notify.KindSuccess:
		icon = styles.IconNotifySuccess
		style = styles.ToastSuccessStyle
	case notify.KindError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.KindWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + n.Message
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}

// ToastPrinter writes each notification it receives to w as a toast. Its
// Print method is a notify.Subscriber.
type ToastPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

func NewToastPrinter(w io.Writer) *ToastPrinter {
	return &ToastPrinter{w: w, width: toastWidth}
}

// Print renders n and writes it followed by a newline.
func (p *ToastPrinter) Print(n notify.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, strings.TrimRight(RenderToast(n, p.width), "\n"))
}
