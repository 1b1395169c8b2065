// Package printer writes styled status lines for CLI commands. A Printer is
// carried on the command context so commands do not need to know where
// output goes.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/astra-bc/kansatsu/internal/core/styles"
)

type ctxKey struct{}

// Printer writes human readable messages to an io.Writer.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) line(style lipgloss.Style, icon, msg string) {
	_, _ = fmt.Fprintln(p.w, style.Render(icon)+" "+msg)
}

// Success prints a success line with an optional muted detail.
func (p *Printer) Success(title, detail string) {
	msg := title
	if detail != "" {
		msg += " " + styles.MutedStyle.Render(detail)
	}
	p.line(styles.SuccessStyle, styles.IconNotifySuccess, msg)
}

func (p *Printer) Successf(format string, args ...any) {
	p.Success(fmt.Sprintf(format, args...), "")
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.InfoStyle, styles.IconNotifyInfo, fmt.Sprintf(format, args...))
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle, styles.IconNotifyWarning, fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle, styles.IconNotifyError, fmt.Sprintf(format, args...))
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}
