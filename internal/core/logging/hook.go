package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and command from the event context onto
// log events written with Ctx(ctx).
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		e.Str("request_id", requestID)
	}

	if command := GetCommand(ctx); command != "" {
		e.Str("command", command)
	}
}
