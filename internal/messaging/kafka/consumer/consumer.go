package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-hris-leave/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// handleFunc processes one decoded message. Returning an error leaves the
// message uncommitted so it is redelivered.
type handleFunc[T any] func(ctx context.Context, event T) error

// run drives the fetch, decode, handle, commit loop until ctx is done.
// Undecodable messages and permanent client errors are committed and skipped.
func run[T any](ctx context.Context, reader MessageReader, log *zap.Logger, handle handleFunc[T]) {
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		var event T
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handle(ctx, event); err != nil {
			if isPermanent(err) {
				log.Warn("message rejected, skipping", zap.Int64("offset", msg.Offset), zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("handle message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

// isPermanent reports whether retrying err can never succeed.
func isPermanent(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500
	}
	return false
}
