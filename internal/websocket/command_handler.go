package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dom/haikyu-team-builder/internal/service"
	"go.uber.org/zap"
)

const commandTimeout = 10 * time.Second

// CommandHandler runs a client's COMMAND and SYNC_STATE messages against its
// builder session. Successful changes reach every subscriber through the hub;
// errors go back to the sender only.
type CommandHandler struct {
	client  *Client
	builder *service.BuilderService
}

// NewCommandHandler creates a new command handler for a client.
func NewCommandHandler(client *Client, builder *service.BuilderService) *CommandHandler {
	return &CommandHandler{client: client, builder: builder}
}

// HandleCommand decodes a builder command and applies it to the session.
func (ch *CommandHandler) HandleCommand(msg *Message) {
	var req service.CommandRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		ch.client.sendError(ErrCodeInvalidCommand, "Invalid command format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := ch.builder.Apply(ctx, ch.client.sessionID, req); err != nil {
		ch.fail(string(req.Action), err)
	}
}

// HandleSync sends the session's current state to the requesting client.
func (ch *CommandHandler) HandleSync() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	view, err := ch.builder.Get(ctx, ch.client.sessionID)
	if err != nil {
		ch.fail("sync", err)
		return
	}
	msg, err := NewMessage(MessageTypeState, view)
	if err != nil {
		ch.client.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	ch.client.Send(msg)
}

func (ch *CommandHandler) fail(action string, err error) {
	code := errorCode(err)
	if code == ErrCodeInternal {
		ch.client.logger.Error("builder command failed", zap.String("action", action), zap.Error(err))
		ch.client.sendError(code, "Internal error")
		return
	}
	ch.client.sendError(code, err.Error())
}

func errorCode(err error) string {
	switch {
	case service.IsRejection(err):
		return ErrCodeRejected
	case service.IsNotFound(err):
		return ErrCodeNotFound
	case service.IsBadRequest(err):
		return ErrCodeInvalidCommand
	default:
		return ErrCodeInternal
	}
}
