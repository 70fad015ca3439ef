package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pos/internal/adapters/out/broadcast"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/display"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 7 * time.Second
	pongWait   = 70 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type (
	DisplaySource interface {
		Subscribe(terminal string) (<-chan display.Projection, func())
	}

	TickSource interface {
		Subscribe() (<-chan time.Time, func())
	}

	CueSource interface {
		Subscribe() (<-chan broadcast.CueEvent, func())
	}
)

// BoardUpdate is pushed to kitchen screens on every clock tick.
type BoardUpdate struct {
	At      time.Time     `json:"at"`
	Tickets []BoardTicket `json:"tickets"`
}

// Streams pushes live state to terminals over websockets: the customer
// display of a terminal, the kitchen board and audio cues.
type Streams struct {
	displays DisplaySource
	ticks    TickSource
	cues     CueSource
	board    KitchenBoardReader
	clock    func() time.Time
	logger   *slog.Logger
}

func NewStreams(
	displays DisplaySource,
	ticks TickSource,
	cues CueSource,
	board KitchenBoardReader,
	clock func() time.Time,
	logger *slog.Logger,
) *Streams {
	return &Streams{
		displays: displays,
		ticks:    ticks,
		cues:     cues,
		board:    board,
		clock:    clock,
		logger:   logger.With("component", "streams"),
	}
}

func (s *Streams) Register(e *echo.Echo) {
	e.GET("/ws/display/:terminal", s.Display)
	e.GET("/ws/kitchen", s.Kitchen)
	e.GET("/ws/cues", s.Cues)
}

// Display handles GET /ws/display/{terminal}. The current projection is sent
// first, then every change.
func (s *Streams) Display(ctx echo.Context) error {
	terminal := ctx.Param("terminal")
	if terminal == "" {
		return badRequest(ctx, "terminal is required")
	}
	updates, cancel := s.displays.Subscribe(terminal)
	defer cancel()
	return serve(s, ctx, nil, updates, display.Encode)
}

// Kitchen handles GET /ws/kitchen. The board is sent on connect and again on
// every clock tick so elapsed times and freshness stay current.
func (s *Streams) Kitchen(ctx echo.Context) error {
	ticks, cancel := s.ticks.Subscribe()
	defer cancel()
	hello := func() ([]byte, error) {
		return s.boardAt(ctx, s.clock())
	}
	return serve(s, ctx, hello, ticks, func(at time.Time) ([]byte, error) {
		return s.boardAt(ctx, at)
	})
}

// Cues handles GET /ws/cues.
func (s *Streams) Cues(ctx echo.Context) error {
	cues, cancel := s.cues.Subscribe()
	defer cancel()
	return serve(s, ctx, nil, cues, func(e broadcast.CueEvent) ([]byte, error) {
		return json.Marshal(e)
	})
}

func (s *Streams) boardAt(ctx echo.Context, at time.Time) ([]byte, error) {
	query, err := queries.NewGetKitchenBoardQuery(at)
	if err != nil {
		return nil, err
	}
	board, err := s.board.Handle(ctx.Request().Context(), query)
	if err != nil {
		return nil, err
	}
	return json.Marshal(BoardUpdate{At: at, Tickets: boardFromQuery(board)})
}

// serve upgrades the request and writes every update until the client goes
// away. Updates that fail to encode are logged and skipped.
func serve[T any](
	s *Streams,
	ctx echo.Context,
	hello func() ([]byte, error),
	updates <-chan T,
	encode func(T) ([]byte, error),
) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil
	}
	c := &client{conn: conn}
	defer func() {
		_ = c.close()
	}()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if hello != nil {
		raw, err := hello()
		if err != nil {
			s.logger.Warn("failed to build stream greeting", "path", ctx.Path(), "error", err)
		} else if err = c.write(raw); err != nil {
			return nil
		}
	}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return nil
		case v, ok := <-updates:
			if !ok {
				return nil
			}
			raw, err := encode(v)
			if err != nil {
				s.logger.Warn("failed to encode stream update", "path", ctx.Path(), "error", err)
				continue
			}
			if err = c.write(raw); err != nil {
				return nil
			}
		case <-ping.C:
			if err := c.ping(); err != nil {
				return nil
			}
		}
	}
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
}

func (c *client) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
