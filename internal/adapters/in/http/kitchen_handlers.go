package http

import (
	"net/http"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/render"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	ticketActionRequest struct {
		Action string `json:"action"`
	}

	checklistRequest struct {
		Unit    string `json:"unit"`
		Checked bool   `json:"checked"`
	}
)

// GetKitchenBoard handles GET /api/v1/kitchen/board.
func (s *Server) GetKitchenBoard(ctx echo.Context) error {
	query, err := queries.NewGetKitchenBoardQuery(s.clock())
	if err != nil {
		return s.fail(ctx, err)
	}
	board, err := s.getKitchenBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, boardFromQuery(board))
}

// AdvanceTicket handles POST /api/v1/kitchen/tickets/{ticketId}/actions.
// A ready action on an incomplete checklist answers 200 with moved=false.
func (s *Server) AdvanceTicket(ctx echo.Context) error {
	ticketID, err := pathUUID(ctx, "ticketId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var req ticketActionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewAdvanceTicketCommand(ticketID, commands.TicketAction(req.Action))
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.advanceTicketHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, TicketMove{Moved: result.Moved, Ticket: ticketFromDomain(result.Ticket)})
}

// CheckTicketUnit handles PUT /api/v1/kitchen/tickets/{ticketId}/checklist.
func (s *Server) CheckTicketUnit(ctx echo.Context) error {
	ticketID, err := pathUUID(ctx, "ticketId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var req checklistRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewCheckTicketUnitCommand(ticketID, req.Unit, req.Checked)
	if err != nil {
		return s.fail(ctx, err)
	}
	ticket, err := s.checkTicketUnitHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ticketFromDomain(ticket))
}

// GetTableOrder handles GET /api/v1/tables/{tableId}/order.
func (s *Server) GetTableOrder(ctx echo.Context) error {
	query, err := queries.NewGetOpenOrderByTableQuery(ctx.Param("tableId"))
	if err != nil {
		return s.fail(ctx, err)
	}
	summary, err := s.getOpenOrderByTableHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, tableOrderFromQuery(summary))
}

// GetSales handles GET /api/v1/sales?day=YYYY-MM-DD.
func (s *Server) GetSales(ctx echo.Context) error {
	var day openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, "day", ctx.QueryParams(), &day); err != nil {
		return badRequest(ctx, err.Error())
	}
	query, err := queries.NewGetSalesHistoryQuery(day.Time)
	if err != nil {
		return s.fail(ctx, err)
	}
	sales, err := s.getSalesHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, salesFromQuery(sales))
}

// GetReceipt handles GET /api/v1/orders/{orderId}/receipt.
func (s *Server) GetReceipt(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	o, err := s.orders.Get(ctx.Request().Context(), orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.String(http.StatusOK, render.Receipt(render.HeaderFor(s.directory, o, s.clock()), o))
}
