package handler

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/service"
)

// OrderHandler serves the order board for physical orders and print jobs.
type OrderHandler struct {
	board *service.OrderBoard
}

func NewOrderHandler(board *service.OrderBoard) *OrderHandler {
	return &OrderHandler{board: board}
}

type listQuery struct {
	scope domain.Scope
	query string
	field service.SortField
	desc  bool
}

func parseListQuery(c echo.Context) (listQuery, error) {
	scope, err := domain.ParseScope(c.QueryParam("scope"))
	if err != nil {
		return listQuery{}, err
	}
	field, desc, err := service.ParseSort(c.QueryParam("sort"), c.QueryParam("dir"))
	if err != nil {
		return listQuery{}, err
	}
	return listQuery{scope: scope, query: c.QueryParam("q"), field: field, desc: desc}, nil
}

func orderIDParam(c echo.Context) (domain.OrderID, error) {
	return domain.ParseOrderID(c.Param("id"))
}

// ListOrders returns the filtered, sorted board.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        scope  query     string  false  "active (default) or past"
// @Param        q      query     string  false  "search by name, email, item or id"
// @Param        sort   query     string  false  "order_time, cost, user_name, quantity"
// @Param        dir    query     string  false  "asc or desc (default)"
// @Success      200    {object}  orderListResponse
// @Failure      400    {object}  map[string]string
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	orders, err := h.board.LoadOrders(c.Request().Context(), q.scope)
	if err != nil {
		return err
	}
	orders = service.SortOrders(service.FilterOrders(orders, q.query), q.field, q.desc)

	rows := make([]orderRow, len(orders))
	for i, o := range orders {
		rows[i] = orderRow{Order: o, Seen: h.board.IsSeen(service.KindOrder, o.OrderID)}
	}
	return c.JSON(http.StatusOK, orderListResponse{Scope: q.scope, Count: len(rows), Orders: rows})
}

// GetOrder returns one order and marks it seen.
//
// @Summary      Order details
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.OrderDetail
// @Failure      404  {object}  map[string]string
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	d, err := h.board.OrderDetails(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// CompleteOrder marks an order completed.
//
// @Summary      Complete order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.Completion
// @Failure      404  {object}  map[string]string
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.board.Complete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ListPrintouts returns the filtered, sorted print jobs.
//
// @Summary      List printouts
// @Tags         printouts
// @Produce      json
// @Param        scope  query     string  false  "active (default) or past"
// @Param        q      query     string  false  "search by name, email or id"
// @Param        sort   query     string  false  "order_time, cost, user_name, quantity"
// @Param        dir    query     string  false  "asc or desc (default)"
// @Success      200    {object}  printoutListResponse
// @Router       /api/printouts [get]
func (h *OrderHandler) ListPrintouts(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}
	printouts, err := h.board.LoadPrintouts(c.Request().Context(), q.scope)
	if err != nil {
		return err
	}
	printouts = service.SortPrintouts(service.FilterPrintouts(printouts, q.query), q.field, q.desc)

	rows := make([]printoutRow, len(printouts))
	for i, p := range printouts {
		rows[i] = printoutRow{Printout: p, TotalPages: p.TotalPages(), Seen: h.board.IsSeen(service.KindPrintout, p.OrderID)}
	}
	return c.JSON(http.StatusOK, printoutListResponse{Scope: q.scope, Count: len(rows), Printouts: rows})
}

// GetPrintout returns one print job and marks it seen.
//
// @Summary      Printout details
// @Tags         printouts
// @Produce      json
// @Param        id   path      int  true  "Printout ID"
// @Success      200  {object}  domain.PrintoutDetail
// @Router       /api/printouts/{id} [get]
func (h *OrderHandler) GetPrintout(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	d, err := h.board.PrintoutDetails(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// CompletePrintout marks a print job completed.
//
// @Summary      Complete printout
// @Tags         printouts
// @Produce      json
// @Param        id   path      int  true  "Printout ID"
// @Success      200  {object}  domain.Completion
// @Router       /api/printouts/{id}/complete [post]
func (h *OrderHandler) CompletePrintout(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	res, err := h.board.CompletePrintout(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// DownloadPrintout streams the file attached to a print job.
//
// @Summary      Download printout file
// @Tags         printouts
// @Produce      octet-stream
// @Param        id   path  int  true  "Printout ID"
// @Success      200
// @Failure      401  {object}  map[string]string
// @Router       /api/printouts/{id}/download [get]
func (h *OrderHandler) DownloadPrintout(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	blob, err := h.board.Download(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendBlob(c, blob)
}

// DownloadPrintoutFile streams one attached file by its own id.
//
// @Summary      Download one attached file
// @Tags         printouts
// @Produce      octet-stream
// @Param        id   path  int  true  "File ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/printout-files/{id}/download [get]
func (h *OrderHandler) DownloadPrintoutFile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: invalid file id %q", domain.ErrInvalidInput, c.Param("id"))
	}
	blob, err := h.board.DownloadFile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendBlob(c, blob)
}

func sendBlob(c echo.Context, blob *domain.Blob) error {
	ct := blob.ContentType
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(blob.Filename))
	return c.Blob(http.StatusOK, ct, blob.Data)
}

// contentDisposition builds an inline disposition; non-ASCII names are
// encoded as filename*=utf-8''...
func contentDisposition(filename string) string {
	if filename == "" {
		return "inline"
	}
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}
