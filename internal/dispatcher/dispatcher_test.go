package dispatcher_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/dispatcher"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/mocks"
	"github.com/feral-file/ff-provenance/internal/providers/jetstream"
	"github.com/feral-file/ff-provenance/internal/store/schema"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

const clientSecret = "746573742d7365637265742d6b6579"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testDispatcherMocks contains all the mocks needed for testing the dispatcher
type testDispatcherMocks struct {
	ctrl       *gomock.Controller
	natsJS     *mocks.MockNatsJetStream
	conn       *mocks.MockNatsConn
	js         *mocks.MockJetStream
	consumer   *mocks.MockNatsConsumer
	sub        *mocks.MockConsumeContext
	msg        *mocks.MockJetStreamMessage
	store      *mocks.MockStore
	httpClient *mocks.MockHTTPClient
	clock      *mocks.MockClock
	dispatcher dispatcher.Dispatcher
}

// setupTestDispatcher creates the mocks and a dispatcher whose consumer hands msg to the handler once
func setupTestDispatcher(t *testing.T) *testDispatcherMocks {
	ctrl := gomock.NewController(t)

	tm := &testDispatcherMocks{
		ctrl:       ctrl,
		natsJS:     mocks.NewMockNatsJetStream(ctrl),
		conn:       mocks.NewMockNatsConn(ctrl),
		js:         mocks.NewMockJetStream(ctrl),
		consumer:   mocks.NewMockNatsConsumer(ctrl),
		sub:        mocks.NewMockConsumeContext(ctrl),
		msg:        mocks.NewMockJetStreamMessage(ctrl),
		store:      mocks.NewMockStore(ctrl),
		httpClient: mocks.NewMockHTTPClient(ctrl),
		clock:      mocks.NewMockClock(ctrl),
	}

	cfg := dispatcher.Config{
		NATS: jetstream.Config{
			URL:        "nats://localhost:4222",
			StreamName: "NOTIFICATIONS",
		},
		ConsumerName:         "webhook-dispatcher",
		AckWaitTimeout:       time.Minute,
		MaxDeliver:           5,
		WorkerPoolSize:       2,
		WorkerQueueSize:      10,
		InitialRetryInterval: time.Millisecond,
		MaxRetryInterval:     5 * time.Millisecond,
	}

	tm.clock.EXPECT().Now().Return(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)).AnyTimes()
	tm.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(tm.conn, tm.js, nil)
	tm.js.EXPECT().EnsureStream(gomock.Any(), cfg.NATS.StreamConfig()).Return(nil)
	tm.js.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "NOTIFICATIONS", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, consumerCfg natsjs.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, "webhook-dispatcher", consumerCfg.Durable)
			assert.Equal(t, "notifications.>", consumerCfg.FilterSubject)
			assert.Equal(t, natsjs.AckExplicitPolicy, consumerCfg.AckPolicy)
			return tm.consumer, nil
		})
	tm.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, opts ...natsjs.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handler(tm.msg)
			return tm.sub, nil
		})
	tm.sub.EXPECT().Stop()

	d, err := dispatcher.NewDispatcher(cfg, tm.natsJS, tm.store, tm.httpClient, webhook.NewSigner(adapter.NewJCS()), tm.clock)
	require.NoError(t, err)
	tm.dispatcher = d

	return tm
}

// tearDownTestDispatcher cleans up the test mocks
func tearDownTestDispatcher(mocks *testDispatcherMocks) {
	mocks.ctrl.Finish()
}

func notificationEvent(t *testing.T) []byte {
	data, err := json.Marshal(domain.NotificationEvent{
		NotificationID: "6f1c8c8e-4a67-4d7c-9d43-4d0f0c9e4a10",
		UserID:         "2b0d1a0e-1111-4c3b-8f5e-3b7e2b7c9a01",
		Type:           domain.NotificationTypeOwnershipRequestReceived,
		Title:          "New ownership request",
		Message:        `Bob has requested ownership of "Harbor at Dusk"`,
		CreatedAt:      "2024-05-01T11:59:00Z",
	})
	require.NoError(t, err)
	return data
}

// runUntilSettled runs the dispatcher until the message is settled by ack, nak or term
func runUntilSettled(ctx context.Context, t *testing.T, tm *testDispatcherMocks) {
	done := make(chan error, 1)
	go func() {
		done <- tm.dispatcher.Run(ctx)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_DeliversWithRetry(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/provenance",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 3,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), "ownership_request_received").
		Return([]*schema.WebhookClient{client}, nil)

	var eventID string
	tm.store.EXPECT().
		CreateWebhookDelivery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, delivery *schema.WebhookDelivery) error {
			assert.Equal(t, client.ClientID, delivery.ClientID)
			assert.Equal(t, "ownership_request_received", delivery.EventType)
			assert.Equal(t, "6f1c8c8e-4a67-4d7c-9d43-4d0f0c9e4a10", delivery.NotificationID)
			assert.Equal(t, schema.WebhookDeliveryStatusPending, delivery.DeliveryStatus)
			_, err := ulid.Parse(delivery.EventID)
			assert.NoError(t, err)
			eventID = delivery.EventID
			delivery.ID = 7
			return nil
		})

	gomock.InOrder(
		tm.httpClient.EXPECT().
			PostWithHeaders(gomock.Any(), client.WebhookURL, gomock.Any(), gomock.Any()).
			Return(&adapter.HTTPResponse{StatusCode: 503, Body: []byte("unavailable")}, nil),
		tm.store.EXPECT().
			UpdateWebhookDeliveryStatus(gomock.Any(), uint64(7), schema.WebhookDeliveryStatusFailed, 1, gomock.Any(), "unavailable", "HTTP 503").
			Return(nil),
		tm.msg.EXPECT().InProgress().Return(nil),
		tm.httpClient.EXPECT().
			PostWithHeaders(gomock.Any(), client.WebhookURL, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, headers map[string]string, body []byte) (*adapter.HTTPResponse, error) {
				assert.Equal(t, "application/json", headers["Content-Type"])
				assert.Equal(t, "ownership_request_received", headers["X-Webhook-Event-Type"])
				assert.Equal(t, eventID, headers["X-Webhook-Event-ID"])
				timestamp, err := strconv.ParseInt(headers["X-Webhook-Timestamp"], 10, 64)
				require.NoError(t, err)
				assert.True(t, webhook.VerifySignature(clientSecret, timestamp, eventID, body, headers["X-Webhook-Signature"]))

				var event webhook.WebhookEvent
				require.NoError(t, json.Unmarshal(body, &event))
				assert.Equal(t, "6f1c8c8e-4a67-4d7c-9d43-4d0f0c9e4a10", event.Data.NotificationID)
				return &adapter.HTTPResponse{StatusCode: 200, Body: []byte("ok")}, nil
			}),
		tm.store.EXPECT().
			UpdateWebhookDeliveryStatus(gomock.Any(), uint64(7), schema.WebhookDeliveryStatusSuccess, 2, gomock.Any(), "ok", "").
			Return(nil),
		tm.msg.EXPECT().Ack().DoAndReturn(func() error {
			cancel()
			return nil
		}),
	)

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_GivesUpAfterRetryBudget(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/provenance",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 2,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return([]*schema.WebhookClient{client}, nil)
	tm.store.EXPECT().CreateWebhookDelivery(gomock.Any(), gomock.Any()).Return(nil)
	tm.httpClient.EXPECT().
		PostWithHeaders(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("dial tcp: connection refused")).
		Times(2)
	tm.store.EXPECT().
		UpdateWebhookDeliveryStatus(gomock.Any(), gomock.Any(), schema.WebhookDeliveryStatusFailed, gomock.Any(), nil, "", "dial tcp: connection refused").
		Return(nil).
		Times(2)
	tm.msg.EXPECT().InProgress().Return(nil)
	// delivery failures are recorded, the message itself is still acknowledged
	tm.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_InvalidSecretIsNotRetried(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/provenance",
		WebhookSecret:    "not-hex",
		IsActive:         true,
		RetryMaxAttempts: 5,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return([]*schema.WebhookClient{client}, nil)
	tm.store.EXPECT().CreateWebhookDelivery(gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().
		UpdateWebhookDeliveryStatus(gomock.Any(), gomock.Any(), schema.WebhookDeliveryStatusFailed, 1, nil, "", gomock.Any()).
		Return(nil)
	tm.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_NoMatchingClients(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return(nil, nil)
	tm.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_StoreFailureNaks(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	tm.msg.EXPECT().Nak().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_MalformedEventIsTerminated(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.msg.EXPECT().Data().Return([]byte("{not json"))
	tm.msg.EXPECT().Term().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_ShutdownNaksUnfinishedDelivery(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/provenance",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 5,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return([]*schema.WebhookClient{client}, nil)
	tm.store.EXPECT().CreateWebhookDelivery(gomock.Any(), gomock.Any()).Return(nil)
	// shutdown arrives while the first attempt is in flight
	tm.httpClient.EXPECT().
		PostWithHeaders(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, _ []byte) (*adapter.HTTPResponse, error) {
			cancel()
			return nil, context.Canceled
		})
	tm.store.EXPECT().
		UpdateWebhookDeliveryStatus(gomock.Any(), gomock.Any(), schema.WebhookDeliveryStatusFailed, 1, nil, "", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ uint64, _ schema.WebhookDeliveryStatus, _ int, _ *int, _ string, _ string) error {
			assert.NoError(t, ctx.Err())
			return nil
		})
	tm.msg.EXPECT().Nak().Return(nil)
	tm.msg.EXPECT().Ack().Times(0)

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_RedeliverySkipsDeliveredClient(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/delivered",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 3,
	}
	pending := &schema.WebhookClient{
		ClientID:         "7a1b2c3d-0000-4e5f-8a9b-0c1d2e3f4a5b",
		WebhookURL:       "https://hooks.example.com/pending",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 3,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().
		GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).
		Return([]*schema.WebhookClient{delivered, pending}, nil)
	tm.store.EXPECT().
		CreateWebhookDelivery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, delivery *schema.WebhookDelivery) error {
			// rows left by the previous delivery of this message
			switch delivery.ClientID {
			case delivered.ClientID:
				delivery.ID = 1
				delivery.DeliveryStatus = schema.WebhookDeliveryStatusSuccess
				delivery.Attempts = 1
			case pending.ClientID:
				delivery.ID = 2
				delivery.DeliveryStatus = schema.WebhookDeliveryStatusFailed
				delivery.Attempts = 2
			}
			return nil
		}).
		Times(2)

	// only the last attempt of the pending client's budget is left
	tm.httpClient.EXPECT().
		PostWithHeaders(gomock.Any(), pending.WebhookURL, gomock.Any(), gomock.Any()).
		Return(&adapter.HTTPResponse{StatusCode: 200, Body: []byte("ok")}, nil)
	tm.store.EXPECT().
		UpdateWebhookDeliveryStatus(gomock.Any(), uint64(2), schema.WebhookDeliveryStatusSuccess, 3, gomock.Any(), "ok", "").
		Return(nil)
	tm.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}

func TestDispatcher_RedeliveryWithSpentBudget(t *testing.T) {
	tm := setupTestDispatcher(t)
	defer tearDownTestDispatcher(tm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &schema.WebhookClient{
		ClientID:         "0d3f5f8e-6d2a-4f43-9a57-1c9c6a8d2e11",
		WebhookURL:       "https://hooks.example.com/provenance",
		WebhookSecret:    clientSecret,
		IsActive:         true,
		RetryMaxAttempts: 2,
	}

	tm.msg.EXPECT().Data().Return(notificationEvent(t))
	tm.store.EXPECT().GetActiveWebhookClientsByEventType(gomock.Any(), gomock.Any()).Return([]*schema.WebhookClient{client}, nil)
	tm.store.EXPECT().
		CreateWebhookDelivery(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, delivery *schema.WebhookDelivery) error {
			delivery.ID = 9
			delivery.DeliveryStatus = schema.WebhookDeliveryStatusFailed
			delivery.Attempts = 2
			return nil
		})
	tm.msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	runUntilSettled(ctx, t, tm)
}
