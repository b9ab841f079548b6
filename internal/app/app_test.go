package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventdesk/internal/app"
	"eventdesk/internal/booking"
	"eventdesk/internal/config"
	"eventdesk/internal/domain/events"
	httpSrv "eventdesk/internal/interfaces/http"
	"eventdesk/internal/views"
)

// fakeEventService is an in-memory Event Service with one event.
type fakeEventService struct {
	mu        sync.Mutex
	event     events.Event
	listCalls int
	bookings  []string
}

func newFakeEventService() *fakeEventService {
	return &fakeEventService{
		event: events.Event{
			ID:    primitive.NewObjectID(),
			Title: "Jazz Night",
			Venue: "Blue Hall",
			Date:  events.NewDate(time.Now().AddDate(0, 0, 7)),
			Time:  "20:00",
			TicketTypes: []events.TicketType{
				{Type: "GA", Price: 40, Quantity: 10, Remaining: pointer.To(10)},
			},
		},
	}
}

func (f *fakeEventService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /user/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.listCalls++
		_ = json.NewEncoder(w).Encode([]events.Event{f.event})
	})

	mux.HandleFunc("POST /user/events/{id}/book", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.PathValue("id") != f.event.ID.Hex() {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		f.bookings = append(f.bookings, r.Header.Get("Idempotency-Key"))
		remaining := f.event.TicketTypes[0].RemainingOrZero() - 1
		f.event.TicketTypes[0].Remaining = &remaining

		_ = json.NewEncoder(w).Encode(map[string]float64{"finalPrice": 40})
	})

	return mux
}

func (f *fakeEventService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.listCalls
}

type ComponentTestSuite struct {
	suite.Suite

	upstream   *fakeEventService
	upstreamTS *httptest.Server
	baseURL    string
	httpClient *http.Client
	cancel     context.CancelFunc
	done       chan error
}

func TestComponentTestSuite(t *testing.T) {
	suite.Run(t, new(ComponentTestSuite))
}

func (suite *ComponentTestSuite) SetupSuite() {
	suite.upstream = newFakeEventService()
	suite.upstreamTS = httptest.NewServer(suite.upstream.handler())
	suite.httpClient = &http.Client{Timeout: 5 * time.Second}

	addr := freeAddr(suite.T())
	suite.baseURL = "http://" + addr

	cfg := config.Config{
		EventAPIURL:        suite.upstreamTS.URL,
		HTTPAddr:           addr,
		SessionTTL:         time.Hour,
		RequestTimeout:     5 * time.Second,
		PageSize:           views.DefaultPageSize,
		ProfileConcurrency: 2,
	}

	a, err := app.NewApp(cfg, watermill.NopLogger{}, nil, nil)
	require.NoError(suite.T(), err, "Failed to initialize the app")

	var ctx context.Context
	ctx, suite.cancel = context.WithCancel(context.Background())
	suite.done = make(chan error, 1)

	go func() {
		suite.done <- a.Run(ctx)
	}()

	suite.waitForHttpServer()
}

func (suite *ComponentTestSuite) TearDownSuite() {
	suite.cancel()

	select {
	case err := <-suite.done:
		suite.NoError(err)
	case <-time.After(15 * time.Second):
		suite.Fail("app did not stop")
	}

	suite.upstreamTS.Close()
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().String()
}

func (suite *ComponentTestSuite) waitForHttpServer() {
	require.EventuallyWithT(
		suite.T(),
		func(t *assert.CollectT) {
			resp, err := suite.httpClient.Get(suite.baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode, "API not ready")
		},
		time.Second*15,
		time.Millisecond*50,
	)
}

func (suite *ComponentTestSuite) request(method, path, sessionID string, body any, out any) int {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		suite.Require().NoError(err)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, bytes.NewReader(payload))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(httpSrv.SessionHeader, sessionID)
	}

	resp, err := suite.httpClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func (suite *ComponentTestSuite) signIn() string {
	var created httpSrv.SessionResponse
	status := suite.request(http.MethodPost, "/session", "", httpSrv.CreateSessionRequest{
		UserID: primitive.NewObjectID().Hex(),
		Token:  "opaque-token",
	}, &created)
	suite.Require().Equal(http.StatusCreated, status)

	return created.SessionID
}

func (suite *ComponentTestSuite) TestBookingRefreshesExplore() {
	sessionID := suite.signIn()
	eventID := suite.upstream.event.ID.Hex()

	var snap views.ExploreSnapshot
	status := suite.request(http.MethodGet, "/explore?search=jazz", sessionID, nil, &snap)
	suite.Require().Equal(http.StatusOK, status)
	suite.Require().Len(snap.Events, 1)
	suite.Equal(10, snap.Events[0].TicketTypes[0].RemainingOrZero())

	callsBefore := suite.upstream.calls()

	var booked httpSrv.BookTicketResponse
	status = suite.request(http.MethodPost, "/explore/book", sessionID, httpSrv.BookTicketRequest{
		EventID:    eventID,
		TicketType: "GA",
	}, &booked)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal(booking.StateSucceeded, booked.Booking.State)
	suite.Equal(pointer.To(40.0), booked.Booking.FinalPrice)

	// TicketBooked_v1 travels through the router and refreshes the view
	suite.EventuallyWithT(func(t *assert.CollectT) {
		assert.Greater(t, suite.upstream.calls(), callsBefore)

		var refreshed views.ExploreSnapshot
		suite.request(http.MethodGet, "/explore", sessionID, nil, &refreshed)
		if assert.Len(t, refreshed.Events, 1) {
			assert.Equal(t, 9, refreshed.Events[0].TicketTypes[0].RemainingOrZero())
		}
	}, 10*time.Second, 100*time.Millisecond)

	suite.upstream.mu.Lock()
	defer suite.upstream.mu.Unlock()
	suite.Require().NotEmpty(suite.upstream.bookings)
	suite.NotEmpty(suite.upstream.bookings[len(suite.upstream.bookings)-1], "booking must carry an idempotency key")
}

func (suite *ComponentTestSuite) TestUnknownSession() {
	var body httpSrv.ErrorResponse
	status := suite.request(http.MethodGet, "/dashboard", "missing", nil, &body)

	suite.Equal(http.StatusUnauthorized, status)
	suite.Equal("unknown_session", body.Error)
}

func (suite *ComponentTestSuite) TestLogout() {
	sessionID := suite.signIn()

	status := suite.request(http.MethodDelete, "/session", sessionID, nil, nil)
	suite.Require().Equal(http.StatusNoContent, status)

	status = suite.request(http.MethodGet, "/explore", sessionID, nil, nil)
	suite.Equal(http.StatusUnauthorized, status, fmt.Sprintf("session %s should be gone", sessionID))
}
