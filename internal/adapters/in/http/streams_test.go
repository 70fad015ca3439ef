package http_test

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "pos/internal/adapters/in/http"
	"pos/internal/adapters/out/broadcast"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/display"
	"pos/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type streamsFixture struct {
	displays *broadcast.Channel
	ticker   *broadcast.Ticker
	cues     *broadcast.Cues
	board    *MockKitchenBoardReader
	url      string
}

func newStreamsFixture(t *testing.T) *streamsFixture {
	t.Helper()
	f := &streamsFixture{
		displays: broadcast.NewChannel(),
		ticker:   broadcast.NewTicker(),
		cues:     broadcast.NewCues(clock),
		board:    &MockKitchenBoardReader{},
	}
	e := echo.New()
	httpin.NewStreams(f.displays, f.ticker, f.cues, f.board, clock, slog.New(slog.DiscardHandler)).Register(e)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	f.url = "ws" + strings.TrimPrefix(server.URL, "http")
	return f
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestStreams_Display(t *testing.T) {
	t.Run("should send the current projection and then every change", func(t *testing.T) {
		f := newStreamsFixture(t)
		first := display.Projection{Version: display.SchemaVersion, Terminal: "till-1", OrderID: "a", Total: decimal.NewFromInt(10)}
		require.NoError(t, f.displays.Publish(t.Context(), first))

		conn := dial(t, f.url+"/ws/display/till-1")

		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		got, err := display.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, "a", got.OrderID)

		require.Eventually(t, func() bool { return f.displays.Subscribers("till-1") == 1 }, time.Second, 10*time.Millisecond)
		second := first
		second.Total = decimal.NewFromInt(12)
		require.NoError(t, f.displays.Publish(t.Context(), second))

		_, raw, err = conn.ReadMessage()
		require.NoError(t, err)
		got, err = display.Decode(raw)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(12)))
	})
}

func TestStreams_Kitchen(t *testing.T) {
	t.Run("should send the board on connect and on every tick", func(t *testing.T) {
		f := newStreamsFixture(t)
		f.board.On("Handle", mock.Anything, mock.Anything).Return([]queries.KitchenBoardTicket{}, nil)

		conn := dial(t, f.url+"/ws/kitchen")

		var update httpin.BoardUpdate
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &update))
		assert.True(t, update.At.Equal(now))

		require.Eventually(t, func() bool { return f.ticker.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
		f.ticker.Tick(now.Add(time.Second))

		_, raw, err = conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &update))
		assert.True(t, update.At.Equal(now.Add(time.Second)))
		assert.Empty(t, update.Tickets)
	})
}

func TestStreams_Cues(t *testing.T) {
	t.Run("should forward played cues", func(t *testing.T) {
		f := newStreamsFixture(t)

		conn := dial(t, f.url+"/ws/cues")
		require.Eventually(t, func() bool { return f.cues.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
		require.NoError(t, f.cues.Play(t.Context(), ports.DispatchCue))

		var event broadcast.CueEvent
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, ports.DispatchCue, event.Cue)
	})
}
