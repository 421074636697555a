package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStaleHandler struct{ mock.Mock }

func (m *mockStaleHandler) Handle(ctx context.Context, cmd commands.CancelStalePendingOrdersCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type mockStaleObserver struct{ mock.Mock }

func (m *mockStaleObserver) ObserveStaleRun(cancelled int) {
	m.Called(cancelled)
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j *fakeJob) Start() error {
	*j.log = append(*j.log, "start "+j.name)
	return j.startErr
}

func (j *fakeJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStalePendingOrdersJob(t *testing.T) {
	tests := []struct {
		name      string
		ttl       time.Duration
		batchSize int
		wantErr   error
	}{
		{name: "valid", ttl: 30 * time.Minute, batchSize: 100},
		{name: "zero ttl", ttl: 0, batchSize: 100, wantErr: errs.ErrValueIsOutOfRange},
		{name: "zero batch", ttl: time.Hour, batchSize: 0, wantErr: errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewStalePendingOrdersJob(&mockStaleHandler{}, nil, "", tt.ttl, tt.batchSize, discardLogger())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultStalePendingSchedule, job.schedule)
		})
	}
}

func TestStalePendingOrdersJob_RunOnce(t *testing.T) {
	t.Run("reports the cancelled count", func(t *testing.T) {
		handler := &mockStaleHandler{}
		observer := &mockStaleObserver{}
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelStalePendingOrdersCommand) bool {
			return cmd.TTL() == 15*time.Minute && cmd.BatchSize() == 50
		})).Return(3, nil).Once()
		observer.On("ObserveStaleRun", 3).Once()

		job, err := NewStalePendingOrdersJob(handler, observer, "*/5 * * * * *", 15*time.Minute, 50, discardLogger())
		require.NoError(t, err)

		cancelled, err := job.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, cancelled)
		handler.AssertExpectations(t)
		observer.AssertExpectations(t)
	})

	t.Run("partial progress is still observed", func(t *testing.T) {
		handler := &mockStaleHandler{}
		observer := &mockStaleObserver{}
		boom := errors.New("database is down")
		handler.On("Handle", mock.Anything, mock.Anything).Return(1, boom).Once()
		observer.On("ObserveStaleRun", 1).Once()

		job, err := NewStalePendingOrdersJob(handler, observer, "", time.Hour, 10, discardLogger())
		require.NoError(t, err)

		cancelled, err := job.RunOnce(context.Background())

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, cancelled)
		observer.AssertExpectations(t)
	})
}

func TestStalePendingOrdersJob_Start(t *testing.T) {
	t.Run("bad schedule", func(t *testing.T) {
		job, err := NewStalePendingOrdersJob(&mockStaleHandler{}, nil, "every minute", time.Hour, 10, discardLogger())
		require.NoError(t, err)

		require.Error(t, job.Start())
	})

	t.Run("start and stop", func(t *testing.T) {
		job, err := NewStalePendingOrdersJob(&mockStaleHandler{}, nil, "0 0 0 1 1 *", time.Hour, 10, discardLogger())
		require.NoError(t, err)

		require.NoError(t, job.Start())
		job.Stop()

		assert.ErrorIs(t, job.ctx.Err(), context.Canceled)
	})
}

func TestJobManager(t *testing.T) {
	t.Run("stops in reverse order", func(t *testing.T) {
		var log []string
		manager := newJobManager(&fakeJob{name: "a", log: &log}, &fakeJob{name: "b", log: &log})

		require.NoError(t, manager.StartAll())
		manager.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start stops the jobs already running", func(t *testing.T) {
		var log []string
		boom := errors.New("boom")
		manager := newJobManager(
			&fakeJob{name: "a", log: &log},
			&fakeJob{name: "b", startErr: boom, log: &log},
			&fakeJob{name: "c", log: &log},
		)

		err := manager.StartAll()

		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"start a", "start b", "stop a"}, log)
	})
}
