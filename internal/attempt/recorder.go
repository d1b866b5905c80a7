package attempt

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/enrollease/enrollease/internal/events"
	"github.com/enrollease/enrollease/internal/quiz"
)

// Writer is the write side of a Store.
type Writer interface {
	RecordAttempt(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error)
}

// AsyncRecorder writes attempts in the background. Record returns immediately;
// a failed write is published on the error channel and never reaches the
// state machine.
type AsyncRecorder struct {
	writer    Writer
	publisher events.Publisher
	timeout   time.Duration

	wg sync.WaitGroup
}

func NewAsyncRecorder(writer Writer, publisher events.Publisher, timeout time.Duration) *AsyncRecorder {
	return &AsyncRecorder{
		writer:    writer,
		publisher: publisher,
		timeout:   timeout,
	}
}

func (r *AsyncRecorder) Record(attempt quiz.NewAttempt) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		stored, err := r.writer.RecordAttempt(ctx, attempt)
		if err != nil {
			r.report(attempt.UserID, quiz.NewPersistenceError(attempt.UserID, err))
			return
		}
		slog.Default().Debug("recorded attempt",
			"user", stored.UserID,
			"id", stored.ID,
			"attemptedAt", stored.AttemptedAt,
		)
	}()
}

// Wait blocks until every write started so far has finished.
func (r *AsyncRecorder) Wait() {
	r.wg.Wait()
}

func (r *AsyncRecorder) report(userID string, err *quiz.PersistenceError) {
	slog.Default().Error("failed to record attempt", "user", userID, "error", err)

	event := events.Event{
		Kind:    events.KindPersistenceFailed,
		UserID:  userID,
		Message: "Your answer to today's quiz could not be saved.",
		Err:     err,
	}
	if isPermissionDenied(err) {
		event.Kind = events.KindPermissionDenied
		event.Message = "You do not have permission to save quiz attempts."
	}
	r.publisher.Publish(event)
}

// MySQL access-denied error numbers.
var permissionErrorNumbers = map[uint16]struct{}{
	1044: {},
	1045: {},
	1142: {},
	1143: {},
}

func isPermissionDenied(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		_, ok := permissionErrorNumbers[mysqlErr.Number]
		return ok
	}
	return false
}
