package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alarm-clock-backend/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

var wakeUp = model.Alarm{ID: 1, Title: "Wake Up", Description: "Morning run", Time: "07:00"}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{}, zap.NewNop())

	wp.Dispatch(wakeUp)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, wakeUp, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(wp.Jobs())+3; i++ {
			wp.Dispatch(model.Alarm{ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.Len(t, wp.Jobs(), cap(wp.Jobs()))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	subscriptionRows := func(endpoint string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow(endpoint, "test_p256dh", "test_auth", time.Now())
	}

	t.Run("sends alarm payload to every subscription", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		wp := NewWorkerPool(1, gormDB, &webpush.Options{}, zap.NewNop())

		sent := make(chan Payload, 2)
		var endpoints []string
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				var p Payload
				require.NoError(t, json.Unmarshal(payload, &p))
				endpoints = append(endpoints, sub.Endpoint)
				sent <- p
				return response(http.StatusCreated), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows("https://example.com/a").
				AddRow("https://example.com/b", "p", "a", time.Now()))

		ctx, cancel := context.WithCancel(context.Background())
		wp.Start(ctx)
		wp.Dispatch(wakeUp)

		for i := 0; i < 2; i++ {
			select {
			case p := <-sent:
				assert.Equal(t, Payload{Title: "Wake Up", Description: "Morning run", Time: "07:00"}, p)
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for notification")
			}
		}
		cancel()
		wp.Wait()

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, endpoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		wp := NewWorkerPool(1, gormDB, &webpush.Options{}, zap.NewNop())
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return response(http.StatusGone), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows("https://example.com/expired"))
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.notifyAll(context.Background(), wakeUp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no subscriptions sends nothing", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		wp := NewWorkerPool(1, gormDB, &webpush.Options{}, zap.NewNop())
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Fatal("unexpected send")
				return nil, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}))

		wp.notifyAll(context.Background(), wakeUp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("send error keeps subscription", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		wp := NewWorkerPool(1, gormDB, &webpush.Options{}, zap.NewNop())
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows("https://example.com/down"))

		wp.notifyAll(context.Background(), wakeUp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWorkerPool_RunStopsOnCancel(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(3, db, &webpush.Options{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- wp.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
