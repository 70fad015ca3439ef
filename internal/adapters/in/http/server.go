package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pos/internal/core/application/session"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	// Directory is the reference data the server reads, plus the outlet name
	// printed on receipts.
	Directory interface {
		ports.Directory
		Outlet() string
	}

	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	}

	TicketAdvancer interface {
		Handle(ctx context.Context, cmd commands.AdvanceTicketCommand) (commands.AdvanceTicketResult, error)
	}

	TicketUnitChecker interface {
		Handle(ctx context.Context, cmd commands.CheckTicketUnitCommand) (*kitchen.Ticket, error)
	}

	KitchenBoardReader interface {
		Handle(ctx context.Context, query queries.GetKitchenBoardQuery) ([]queries.KitchenBoardTicket, error)
	}

	TableOrderReader interface {
		Handle(ctx context.Context, query queries.GetOpenOrderByTableQuery) (queries.OpenOrderSummary, error)
	}

	SalesReader interface {
		Handle(ctx context.Context, query queries.GetSalesHistoryQuery) (queries.SalesDay, error)
	}
)

// Server handles the terminal, kitchen board and back office endpoints.
// It coordinates between HTTP handlers, terminal sessions and use cases.
type Server struct {
	sessions  *session.Registry
	directory Directory
	orders    OrderReader

	// Command handlers
	advanceTicketHandler   TicketAdvancer
	checkTicketUnitHandler TicketUnitChecker

	// Query handlers
	getKitchenBoardHandler     KitchenBoardReader
	getOpenOrderByTableHandler TableOrderReader
	getSalesHistoryHandler     SalesReader

	clock  func() time.Time
	logger *slog.Logger
}

func NewServer(
	sessions *session.Registry,
	directory Directory,
	orders OrderReader,
	advanceTicketHandler TicketAdvancer,
	checkTicketUnitHandler TicketUnitChecker,
	getKitchenBoardHandler KitchenBoardReader,
	getOpenOrderByTableHandler TableOrderReader,
	getSalesHistoryHandler SalesReader,
	clock func() time.Time,
	logger *slog.Logger,
) *Server {
	return &Server{
		sessions:                   sessions,
		directory:                  directory,
		orders:                     orders,
		advanceTicketHandler:       advanceTicketHandler,
		checkTicketUnitHandler:     checkTicketUnitHandler,
		getKitchenBoardHandler:     getKitchenBoardHandler,
		getOpenOrderByTableHandler: getOpenOrderByTableHandler,
		getSalesHistoryHandler:     getSalesHistoryHandler,
		clock:                      clock,
		logger:                     logger.With("component", "http"),
	}
}

// Register mounts the API on e. Requests under /api are validated against
// doc before they reach a handler.
func (s *Server) Register(e *echo.Echo, doc *openapi3.T) error {
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}
	if err = registerSwagger(doc); err != nil {
		return err
	}

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)
	api.GET("/menu", s.GetMenu)

	terminal := api.Group("/terminals/:terminal")
	terminal.GET("/order", s.GetTerminalOrder)
	terminal.POST("/order", s.StartOrder)
	terminal.POST("/open-table", s.OpenTable)
	terminal.POST("/order/items", s.AddItem)
	terminal.PATCH("/order/items/:lineId", s.UpdateItem)
	terminal.DELETE("/order/items/:lineId", s.RemoveItem)
	terminal.PUT("/order/type", s.SetOrderType)
	terminal.PUT("/order/table", s.BindTable)
	terminal.DELETE("/order/table", s.ReleaseTable)
	terminal.PUT("/order/customer", s.AssignCustomer)
	terminal.PUT("/order/waiter", s.AssignWaiter)
	terminal.PUT("/order/delivery-partner", s.AssignDeliveryPartner)
	terminal.PUT("/order/discount", s.ApplyDiscount)
	terminal.PUT("/order/tip", s.SetTip)
	terminal.POST("/order/clear", s.ClearOrder)
	terminal.POST("/order/dispatch", s.DispatchOrder)
	terminal.POST("/order/finalize", s.FinalizeOrder)
	terminal.POST("/order/cancel", s.CancelOrder)

	api.GET("/tables/:tableId/order", s.GetTableOrder)
	api.GET("/kitchen/board", s.GetKitchenBoard)
	api.POST("/kitchen/tickets/:ticketId/actions", s.AdvanceTicket)
	api.PUT("/kitchen/tickets/:ticketId/checklist", s.CheckTicketUnit)
	api.GET("/sales", s.GetSales)
	api.GET("/orders/:orderId/receipt", s.GetReceipt)
	return nil
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetMenu handles GET /api/v1/menu - lists the sellable catalog.
func (s *Server) GetMenu(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, menuFromDomain(s.directory.Menu()))
}
