package http

import (
	"net/http"

	"pos/internal/core/application/session"
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

type (
	orderTypeRequest struct {
		Type string `json:"type"`
	}

	tableRequest struct {
		TableID string `json:"table_id"`
	}

	addItemRequest struct {
		MenuItemID string   `json:"menu_item_id"`
		Variation  string   `json:"variation"`
		AddonIDs   []string `json:"addon_ids"`
	}

	updateItemRequest struct {
		Quantity *int    `json:"quantity"`
		Note     *string `json:"note"`
	}

	assignmentRequest struct {
		ID string `json:"id"`
	}

	discountRequest struct {
		Type  string          `json:"type"`
		Value decimal.Decimal `json:"value"`
	}

	tipRequest struct {
		Amount decimal.Decimal `json:"amount"`
	}

	clearRequest struct {
		KeepTable bool `json:"keep_table"`
	}

	splitRequest struct {
		Label    string          `json:"label"`
		Amount   decimal.Decimal `json:"amount"`
		LineIDs  []string        `json:"line_ids"`
		Payments []Payment       `json:"payments"`
	}

	finalizeRequest struct {
		Payments []Payment       `json:"payments"`
		Tip      *decimal.Decimal `json:"tip"`
		Splits   []splitRequest   `json:"splits"`
	}
)

// GetTerminalOrder handles GET /api/v1/terminals/{terminal}/order.
func (s *Server) GetTerminalOrder(ctx echo.Context) error {
	c, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	o := c.Order()
	if o == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(o))
}

// StartOrder handles POST /api/v1/terminals/{terminal}/order.
func (s *Server) StartOrder(ctx echo.Context) error {
	var req orderTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	t, err := order.ParseType(req.Type)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.change(ctx, http.StatusCreated, func(c *session.Controller) error {
		return c.Start(ctx.Request().Context(), t)
	})
}

// OpenTable handles POST /api/v1/terminals/{terminal}/open-table.
func (s *Server) OpenTable(ctx echo.Context) error {
	var req tableRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.OpenTable(ctx.Request().Context(), req.TableID)
	})
}

// AddItem handles POST /api/v1/terminals/{terminal}/order/items.
func (s *Server) AddItem(ctx echo.Context) error {
	var req addItemRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusCreated, func(c *session.Controller) error {
		_, err := c.AddItem(ctx.Request().Context(), req.MenuItemID, req.Variation, req.AddonIDs)
		return err
	})
}

// UpdateItem handles PATCH /api/v1/terminals/{terminal}/order/items/{lineId}.
// A quantity of zero or less removes the line.
func (s *Server) UpdateItem(ctx echo.Context) error {
	lineID, err := pathUUID(ctx, "lineId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var req updateItemRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		if req.Note != nil {
			if err := c.SetNote(ctx.Request().Context(), lineID, *req.Note); err != nil {
				return err
			}
		}
		if req.Quantity != nil {
			return c.UpdateQuantity(ctx.Request().Context(), lineID, *req.Quantity)
		}
		return nil
	})
}

// RemoveItem handles DELETE /api/v1/terminals/{terminal}/order/items/{lineId}.
func (s *Server) RemoveItem(ctx echo.Context) error {
	lineID, err := pathUUID(ctx, "lineId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.RemoveItem(ctx.Request().Context(), lineID)
	})
}

// SetOrderType handles PUT /api/v1/terminals/{terminal}/order/type.
func (s *Server) SetOrderType(ctx echo.Context) error {
	var req orderTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	t, err := order.ParseType(req.Type)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.SetType(ctx.Request().Context(), t)
	})
}

// BindTable handles PUT /api/v1/terminals/{terminal}/order/table.
func (s *Server) BindTable(ctx echo.Context) error {
	var req tableRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.BindTable(ctx.Request().Context(), req.TableID)
	})
}

// ReleaseTable handles DELETE /api/v1/terminals/{terminal}/order/table.
func (s *Server) ReleaseTable(ctx echo.Context) error {
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.ReleaseTable(ctx.Request().Context())
	})
}

// AssignCustomer handles PUT /api/v1/terminals/{terminal}/order/customer.
func (s *Server) AssignCustomer(ctx echo.Context) error {
	var req assignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.AssignCustomer(ctx.Request().Context(), req.ID)
	})
}

// AssignWaiter handles PUT /api/v1/terminals/{terminal}/order/waiter.
func (s *Server) AssignWaiter(ctx echo.Context) error {
	var req assignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.AssignWaiter(ctx.Request().Context(), req.ID)
	})
}

// AssignDeliveryPartner handles PUT /api/v1/terminals/{terminal}/order/delivery-partner.
func (s *Server) AssignDeliveryPartner(ctx echo.Context) error {
	var req assignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.AssignDeliveryPartner(ctx.Request().Context(), req.ID)
	})
}

// ApplyDiscount handles PUT /api/v1/terminals/{terminal}/order/discount.
func (s *Server) ApplyDiscount(ctx echo.Context) error {
	var req discountRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	kind, err := billing.ParseDiscountType(req.Type)
	if err != nil {
		return s.fail(ctx, err)
	}
	discount, err := billing.NewDiscount(kind, req.Value)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.ApplyDiscount(ctx.Request().Context(), discount)
	})
}

// SetTip handles PUT /api/v1/terminals/{terminal}/order/tip.
func (s *Server) SetTip(ctx echo.Context) error {
	var req tipRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.SetTip(ctx.Request().Context(), req.Amount)
	})
}

// ClearOrder handles POST /api/v1/terminals/{terminal}/order/clear.
func (s *Server) ClearOrder(ctx echo.Context) error {
	var req clearRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.Clear(ctx.Request().Context(), req.KeepTable)
	})
}

// DispatchOrder handles POST /api/v1/terminals/{terminal}/order/dispatch.
func (s *Server) DispatchOrder(ctx echo.Context) error {
	c, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	ticket, err := c.Dispatch(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, ticketFromDomain(ticket))
}

// FinalizeOrder handles POST /api/v1/terminals/{terminal}/order/finalize.
// Without a tip in the request the order keeps its current tip.
func (s *Server) FinalizeOrder(ctx echo.Context) error {
	var req finalizeRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	c, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	payments, err := paymentsToDomain(req.Payments)
	if err != nil {
		return s.fail(ctx, err)
	}
	splits, err := splitsToDomain(req.Splits)
	if err != nil {
		return s.fail(ctx, err)
	}
	tip := decimal.Zero
	if req.Tip != nil {
		tip = *req.Tip
	} else if current := c.Order(); current != nil {
		tip = current.Tip()
	}

	result, err := c.Finalize(ctx.Request().Context(), payments, tip, splits)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, settlementFromResult(result))
}

// CancelOrder handles POST /api/v1/terminals/{terminal}/order/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	return s.change(ctx, http.StatusOK, func(c *session.Controller) error {
		return c.Cancel(ctx.Request().Context())
	})
}

func (s *Server) session(ctx echo.Context) (*session.Controller, error) {
	return s.sessions.Get(ctx.Param("terminal"))
}

// change runs op on the terminal's session and responds with the order it
// left active.
func (s *Server) change(ctx echo.Context, status int, op func(c *session.Controller) error) error {
	c, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = op(c); err != nil {
		return s.fail(ctx, err)
	}
	o := c.Order()
	if o == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(status, orderFromDomain(o))
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(id[:])
}

func paymentsToDomain(payments []Payment) ([]order.Payment, error) {
	result := make([]order.Payment, 0, len(payments))
	for _, p := range payments {
		payment, err := order.NewPayment(p.Method, p.Amount)
		if err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, nil
}

func splitsToDomain(splits []splitRequest) ([]*order.Split, error) {
	result := make([]*order.Split, 0, len(splits))
	for _, req := range splits {
		lineIDs := make([]kernel.UUID, 0, len(req.LineIDs))
		for _, raw := range req.LineIDs {
			id, err := kernel.UUIDFromString(raw)
			if err != nil {
				return nil, errs.NewValueIsInvalidErrorWithCause("split line id", err)
			}
			lineIDs = append(lineIDs, id)
		}
		split, err := order.NewSplit(kernel.NewUUID(), req.Label, req.Amount, lineIDs)
		if err != nil {
			return nil, err
		}
		payments, err := paymentsToDomain(req.Payments)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			split.AddPayment(p)
		}
		result = append(result, split)
	}
	return result, nil
}
