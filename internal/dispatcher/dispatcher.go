package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	jsprovider "github.com/feral-file/ff-provenance/internal/providers/jetstream"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/store/schema"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 10
	DEFAULT_WORKER_QUEUE_SIZE = 100
	DEFAULT_MAX_ATTEMPTS      = 5
	USER_AGENT                = "FF-Provenance-Webhook/1.0"
)

// Config holds the configuration for the notification dispatcher
type Config struct {
	NATS            jsprovider.Config
	ConsumerName    string
	AckWaitTimeout  time.Duration
	MaxDeliver      int
	WorkerPoolSize  int
	WorkerQueueSize int
	// InitialRetryInterval and MaxRetryInterval shape the exponential backoff between delivery attempts
	InitialRetryInterval time.Duration
	MaxRetryInterval     time.Duration
}

// Dispatcher defines the interface for the notification fan-out worker
type Dispatcher interface {
	// Run consumes notification events until ctx is cancelled
	Run(ctx context.Context) error
	// Close closes the NATS connection
	Close()
}

type dispatcher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	store      store.Store
	httpClient adapter.HTTPClient
	signer     *webhook.Signer
	clock      adapter.Clock
	config     Config
}

// NewDispatcher connects to NATS and returns a dispatcher delivering notification events to webhook clients
func NewDispatcher(
	cfg Config,
	natsJS adapter.NatsJetStream,
	st store.Store,
	httpClient adapter.HTTPClient,
	signer *webhook.Signer,
	clock adapter.Clock,
) (Dispatcher, error) {
	nc, js, err := natsJS.Connect(cfg.NATS.URL, jsprovider.ConnectOptions(cfg.NATS)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &dispatcher{
		nc:         nc,
		js:         js,
		store:      st,
		httpClient: httpClient,
		signer:     signer,
		clock:      clock,
		config:     cfg,
	}, nil
}

// Run starts consuming notification events
func (d *dispatcher) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting notification dispatcher",
		zap.String("stream", d.config.NATS.StreamName),
		zap.String("consumer", d.config.ConsumerName))

	if err := d.js.EnsureStream(ctx, d.config.NATS.StreamConfig()); err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", d.config.NATS.StreamName, err)
	}

	consumer, err := d.js.CreateOrUpdateConsumer(ctx, d.config.NATS.StreamName, jetstream.ConsumerConfig{
		Durable:       d.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       d.config.AckWaitTimeout,
		MaxDeliver:    d.config.MaxDeliver,
		FilterSubject: domain.NOTIFICATION_SUBJECT_PREFIX + ".>",
	})
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	workerPoolSize := d.config.WorkerPoolSize
	if workerPoolSize == 0 {
		workerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	workerQueueSize := d.config.WorkerQueueSize
	if workerQueueSize == 0 {
		workerQueueSize = DEFAULT_WORKER_QUEUE_SIZE
	}
	pool := pond.NewPool(workerPoolSize, pond.WithQueueSize(workerQueueSize))

	sub, err := consumer.Consume(func(msg adapter.Message) {
		pool.Submit(func() {
			d.handleMessage(ctx, msg)
		})
	})
	if err != nil {
		pool.StopAndWait()
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	logger.InfoCtx(ctx, "Started consuming notification events",
		zap.Int("workers", workerPoolSize),
		zap.Int("queue_size", workerQueueSize))

	<-ctx.Done()
	logger.InfoCtx(ctx, "Shutting down notification dispatcher")

	sub.Stop()
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Notification dispatcher stopped",
		zap.Uint64("total_submitted", pool.SubmittedTasks()),
		zap.Uint64("total_completed", pool.CompletedTasks()))

	return ctx.Err()
}

// handleMessage fans a single notification event out to the matching webhook clients.
// Failed deliveries are recorded per client and do not redeliver the message. A delivery
// cut short by shutdown naks the message so it is picked up again after restart.
func (d *dispatcher) handleMessage(ctx context.Context, msg adapter.Message) {
	var event domain.NotificationEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal notification event"))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	ctx = logger.WithFields(ctx,
		zap.String("notificationID", event.NotificationID),
		zap.String("type", string(event.Type)))

	clients, err := d.store.GetActiveWebhookClientsByEventType(ctx, string(event.Type))
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to load webhook clients"))
		nak(ctx, msg)
		return
	}

	if len(clients) > 0 {
		whEvent := webhook.NewWebhookEvent(d.eventID(event), event, d.clock.Now())
		for _, client := range clients {
			if ctx.Err() != nil {
				break
			}
			if _, err := d.deliver(ctx, msg, client, whEvent); err != nil {
				logger.WarnCtx(ctx, "Webhook delivery failed",
					zap.String("clientID", client.ClientID),
					zap.String("eventID", whEvent.EventID),
					zap.Error(err))
			}
		}
	}

	if ctx.Err() != nil {
		logger.WarnCtx(ctx, "Delivery interrupted by shutdown, message will be redelivered")
		nak(ctx, msg)
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}

func nak(ctx context.Context, msg adapter.Message) {
	if err := msg.Nak(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
	}
}

// eventID derives a ULID from the notification so a redelivered message keeps its event ID
func (d *dispatcher) eventID(event domain.NotificationEvent) string {
	createdAt, err := time.Parse(time.RFC3339Nano, event.CreatedAt)
	if err != nil {
		createdAt = d.clock.Now()
	}
	id, err := uuid.Parse(event.NotificationID)
	if err != nil {
		return ulid.Make().String()
	}
	return ulid.MustNew(ulid.Timestamp(createdAt), bytes.NewReader(id[:])).String()
}

// deliver posts the signed event to one client, retrying with exponential backoff
// up to the client's retry budget. Every attempt is recorded on the delivery row, and
// attempts made on an earlier delivery of the same message count against the budget.
// The message is marked in progress before each backoff wait so JetStream does not
// redeliver it while retries are pending.
func (d *dispatcher) deliver(ctx context.Context, msg adapter.Message, client *schema.WebhookClient, event webhook.WebhookEvent) (webhook.DeliveryResult, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return webhook.DeliveryResult{Error: err.Error()}, fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	delivery := &schema.WebhookDelivery{
		ClientID:       client.ClientID,
		EventID:        event.EventID,
		EventType:      event.EventType,
		NotificationID: event.Data.NotificationID,
		Payload:        payload,
		DeliveryStatus: schema.WebhookDeliveryStatusPending,
	}
	if err := d.store.CreateWebhookDelivery(ctx, delivery); err != nil {
		return webhook.DeliveryResult{Error: err.Error()}, err
	}

	if delivery.DeliveryStatus == schema.WebhookDeliveryStatusSuccess {
		logger.InfoCtx(ctx, "Webhook already delivered",
			zap.String("clientID", client.ClientID),
			zap.String("eventID", event.EventID))
		return webhook.DeliveryResult{Success: true, StatusCode: derefInt(delivery.ResponseStatus)}, nil
	}

	maxAttempts := client.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	remaining := maxAttempts - delivery.Attempts
	if remaining <= 0 {
		return webhook.DeliveryResult{Error: delivery.ErrorMessage}, fmt.Errorf("retry budget of %d attempts already spent", maxAttempts)
	}

	b := backoff.NewExponentialBackOff()
	if d.config.InitialRetryInterval > 0 {
		b.InitialInterval = d.config.InitialRetryInterval
	}
	if d.config.MaxRetryInterval > 0 {
		b.MaxInterval = d.config.MaxRetryInterval
	}
	b.MaxElapsedTime = 0
	b.Multiplier = 2.0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(remaining-1)), ctx) //nolint:gosec,G115

	attempt := delivery.Attempts
	var result webhook.DeliveryResult
	operation := func() error {
		attempt++
		result, err = d.attempt(ctx, client, event, delivery.ID, attempt)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "Webhook delivery attempt failed, retrying",
			zap.String("clientID", client.ClientID),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next),
			zap.Error(err))
		if err := msg.InProgress(); err != nil {
			logger.WarnCtx(ctx, "Failed to extend ack wait", zap.Error(err))
		}
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return result, fmt.Errorf("failed after %d attempts: %w", attempt, err)
	}

	logger.InfoCtx(ctx, "Webhook delivered successfully",
		zap.String("clientID", client.ClientID),
		zap.String("eventID", event.EventID),
		zap.Int("statusCode", result.StatusCode),
		zap.Int("attempts", attempt))

	return result, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// attempt performs one signed HTTP delivery and records its outcome
func (d *dispatcher) attempt(ctx context.Context, client *schema.WebhookClient, event webhook.WebhookEvent, deliveryID uint64, attempt int) (webhook.DeliveryResult, error) {
	signed, err := d.signer.Sign(client.WebhookSecret, event, d.clock.Now().Unix())
	if err != nil {
		d.recordAttempt(ctx, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, nil, "", err.Error())
		return webhook.DeliveryResult{Error: err.Error()}, backoff.Permanent(err)
	}

	headers := map[string]string{
		"Content-Type":         "application/json",
		"X-Webhook-Signature":  signed.Signature,
		"X-Webhook-Event-ID":   event.EventID,
		"X-Webhook-Event-Type": event.EventType,
		"X-Webhook-Timestamp":  fmt.Sprintf("%d", signed.Timestamp),
		"User-Agent":           USER_AGENT,
	}

	resp, err := d.httpClient.PostWithHeaders(ctx, client.WebhookURL, headers, signed.Body)
	if err != nil {
		d.recordAttempt(ctx, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, nil, "", err.Error())
		return webhook.DeliveryResult{Error: err.Error()}, err
	}

	body := string(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		d.recordAttempt(ctx, deliveryID, schema.WebhookDeliveryStatusFailed, attempt, &resp.StatusCode, body, err.Error())
		return webhook.DeliveryResult{StatusCode: resp.StatusCode, Body: body, Error: err.Error()}, err
	}

	d.recordAttempt(ctx, deliveryID, schema.WebhookDeliveryStatusSuccess, attempt, &resp.StatusCode, body, "")
	return webhook.DeliveryResult{Success: true, StatusCode: resp.StatusCode, Body: body}, nil
}

func (d *dispatcher) recordAttempt(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempt int, responseStatus *int, responseBody, errorMessage string) {
	// the outcome is recorded even when shutdown cancelled ctx mid-attempt
	if err := d.store.UpdateWebhookDeliveryStatus(context.WithoutCancel(ctx), deliveryID, status, attempt, responseStatus, responseBody, errorMessage); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to update webhook delivery status"),
			zap.Error(err),
			zap.Uint64("deliveryID", deliveryID))
	}
}

// Close closes the NATS connection
func (d *dispatcher) Close() {
	if d.nc == nil {
		return
	}

	d.nc.Close()
}
