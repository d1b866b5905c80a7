package attempt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/enrollease/enrollease/internal/events"
	mock_attempt "github.com/enrollease/enrollease/internal/mocks/attempt"
	"github.com/enrollease/enrollease/internal/quiz"
)

func TestAsyncRecorder_Record(t *testing.T) {
	newAttempt := quiz.NewAttempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "C",
		IsCorrect:       false,
	}

	tests := []struct {
		name      string
		writeErr  error
		wantEvent bool
		wantKind  events.Kind
	}{
		{
			name: "successful write publishes nothing",
		},
		{
			name:      "failed write is reported",
			writeErr:  errors.New("connection refused"),
			wantEvent: true,
			wantKind:  events.KindPersistenceFailed,
		},
		{
			name:      "mysql access denied is a permission failure",
			writeErr:  fmt.Errorf("db.ExecContext() > %w", &mysql.MySQLError{Number: 1142, Message: "INSERT command denied"}),
			wantEvent: true,
			wantKind:  events.KindPermissionDenied,
		},
		{
			name:      "file permission is a permission failure",
			writeErr:  fmt.Errorf("os.WriteFile() > %w", os.ErrPermission),
			wantEvent: true,
			wantKind:  events.KindPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_attempt.NewMockStore(ctrl)
			if tt.writeErr != nil {
				store.EXPECT().RecordAttempt(gomock.Any(), newAttempt).Return(nil, tt.writeErr)
			} else {
				store.EXPECT().RecordAttempt(gomock.Any(), newAttempt).Return(&quiz.Attempt{ID: 1, UserID: "u1"}, nil)
			}

			bus := events.NewBus()
			defer bus.Close()
			sub := bus.Subscribe(1, events.ForUser("u1"))

			recorder := NewAsyncRecorder(store, bus, time.Second)
			recorder.Record(newAttempt)
			recorder.Wait()

			if !tt.wantEvent {
				assert.Len(t, sub.C(), 0)
				return
			}
			require.Len(t, sub.C(), 1)
			event := <-sub.C()
			assert.Equal(t, tt.wantKind, event.Kind)
			assert.Equal(t, "u1", event.UserID)
			assert.NotEmpty(t, event.Message)
			assert.ErrorIs(t, event.Err, quiz.ErrPersistence)
			assert.ErrorIs(t, event.Err, tt.writeErr)
		})
	}
}

func TestAsyncRecorder_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	writer := writerFunc(func(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error) {
		<-release
		return &quiz.Attempt{UserID: attempt.UserID}, nil
	})

	bus := events.NewBus()
	defer bus.Close()
	recorder := NewAsyncRecorder(writer, bus, time.Second)

	returned := make(chan struct{})
	go func() {
		recorder.Record(quiz.NewAttempt{UserID: "u1"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Record waited for the write")
	}
	close(release)
	recorder.Wait()
}

func TestAsyncRecorder_TimesOut(t *testing.T) {
	writer := writerFunc(func(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(1, nil)

	recorder := NewAsyncRecorder(writer, bus, 10*time.Millisecond)
	recorder.Record(quiz.NewAttempt{UserID: "u1"})
	recorder.Wait()

	require.Len(t, sub.C(), 1)
	event := <-sub.C()
	assert.ErrorIs(t, event.Err, context.DeadlineExceeded)
}

type writerFunc func(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error)

func (f writerFunc) RecordAttempt(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error) {
	return f(ctx, attempt)
}
