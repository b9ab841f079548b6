package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"eventdesk/internal/domain/bookings"
	"eventdesk/internal/domain/events"
	"eventdesk/internal/domain/profiles"
	"eventdesk/internal/idempotency"
	"eventdesk/internal/observability"
	"eventdesk/internal/session"
)

const maxErrorBody = 64 << 10

type EventServiceClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewEventServiceClient(baseURL string, httpClient *http.Client) EventServiceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return EventServiceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c EventServiceClient) ListEvents(ctx context.Context, sess session.Session) ([]events.Event, error) {
	var list []events.Event
	err := c.do(ctx, sess, "list_events", http.MethodGet, "/user/events", nil, "", &list)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	return list, nil
}

func (c EventServiceClient) GetEvent(ctx context.Context, sess session.Session, id primitive.ObjectID) (*events.Event, error) {
	var event events.Event
	err := c.do(ctx, sess, "get_event", http.MethodGet, "/user/events/"+id.Hex(), nil, "", &event)
	if err != nil {
		return nil, fmt.Errorf("error getting event %s: %w", id.Hex(), err)
	}

	return &event, nil
}

// CreateEvent posts the draft as multipart form data. Ticket types and discount
// codes travel as JSON encoded form fields.
func (c EventServiceClient) CreateEvent(ctx context.Context, sess session.Session, draft events.Draft) (*events.Event, error) {
	body, contentType, err := draftForm(draft)
	if err != nil {
		return nil, fmt.Errorf("error encoding event form: %w", err)
	}

	var event events.Event
	err = c.do(ctx, sess, "create_event", http.MethodPost, "/user/events/", body, contentType, &event)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	return &event, nil
}

func (c EventServiceClient) UpdateEvent(ctx context.Context, sess session.Session, id primitive.ObjectID, draft events.Draft) (*events.Event, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("error encoding event: %w", err)
	}

	var event events.Event
	err = c.do(ctx, sess, "update_event", http.MethodPut, "/user/events/"+id.Hex(), bytes.NewReader(payload), "application/json", &event)
	if err != nil {
		return nil, fmt.Errorf("error updating event %s: %w", id.Hex(), err)
	}

	return &event, nil
}

func (c EventServiceClient) DeleteEvent(ctx context.Context, sess session.Session, id primitive.ObjectID) error {
	err := c.do(ctx, sess, "delete_event", http.MethodDelete, "/user/events/"+id.Hex(), nil, "", nil)
	if err != nil {
		return fmt.Errorf("error deleting event %s: %w", id.Hex(), err)
	}

	return nil
}

func (c EventServiceClient) BookTicket(ctx context.Context, sess session.Session, request bookings.Request) (*bookings.Confirmation, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding booking: %w", err)
	}

	var confirmation bookings.Confirmation
	err = c.do(ctx, sess, "book_ticket", http.MethodPost, "/user/events/"+request.EventID.Hex()+"/book", bytes.NewReader(payload), "application/json", &confirmation)
	if err != nil {
		return nil, fmt.Errorf("error booking ticket: %w", err)
	}

	return &confirmation, nil
}

func (c EventServiceClient) GetProfile(ctx context.Context, sess session.Session, userID primitive.ObjectID) (*profiles.AttendeeProfile, error) {
	var envelope struct {
		UserProfile *profiles.AttendeeProfile `json:"userProfile"`
	}
	err := c.do(ctx, sess, "get_profile", http.MethodGet, "/user/profile/"+userID.Hex(), nil, "", &envelope)
	if err != nil {
		return nil, fmt.Errorf("error getting profile %s: %w", userID.Hex(), err)
	}
	if envelope.UserProfile == nil {
		return nil, fmt.Errorf("error getting profile %s: empty userProfile", userID.Hex())
	}

	return envelope.UserProfile, nil
}

func (c EventServiceClient) ListNotifications(ctx context.Context, sess session.Session) ([]profiles.Notification, error) {
	var list []profiles.Notification
	err := c.do(ctx, sess, "list_notifications", http.MethodGet, "/user/notifications", nil, "", &list)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	return list, nil
}

func (c EventServiceClient) do(
	ctx context.Context,
	sess session.Session,
	operation string,
	method string,
	path string,
	body io.Reader,
	contentType string,
	out any,
) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		observability.ObserveEventServiceCall(operation, outcome, time.Since(start))
	}()

	if !sess.Usable(c.now()) {
		outcome = "auth"
		return ErrAuth
	}

	ctx, span := otel.Tracer(observability.TracerName).Start(
		ctx,
		"event_service."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.path", path))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		outcome = "network"
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		outcome = "network"
		return fmt.Errorf("error building request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Correlation-ID", log.CorrelationIDFromContext(ctx))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", idempotency.GetKey(ctx))
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "network"
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		outcome = "auth"
		return fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		outcome = "rejected"
		return &RejectionError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		outcome = "decode"
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// errorMessage extracts "message" (or "error") from a JSON error body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	if payload.Message != "" {
		return payload.Message
	}

	return payload.Error
}

func draftForm(draft events.Draft) (io.Reader, string, error) {
	ticketTypes, err := json.Marshal(draft.TicketTypes)
	if err != nil {
		return nil, "", err
	}
	discountCodes, err := json.Marshal(draft.DiscountCodes)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct {
		name  string
		value string
	}{
		{"title", draft.Title},
		{"description", draft.Description},
		{"date", draft.Date.String()},
		{"time", draft.Time},
		{"venue", draft.Venue},
		{"ticketTypes", string(ticketTypes)},
		{"discountCodes", string(discountCodes)},
		{"organizer", draft.Organizer.Hex()},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
