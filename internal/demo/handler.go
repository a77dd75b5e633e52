package demo

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createItemRequest struct {
	Item    string `json:"item"  validate:"required,max=25"`
	Price   string `json:"price" validate:"required,numeric"`
	InStock *bool  `json:"in_stock"`
}

type completion struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// fieldErrors renders validator failures the way the upstream serializers
// do: {"field": ["message"]}.
func fieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["non_field_errors"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "This field is required."
		case "email":
			msg = "Enter a valid email address."
		case "oneof":
			msg = fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
		case "numeric":
			msg = "A valid number is required."
		case "min":
			msg = "This field may not be blank."
		case "max":
			msg = fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		default:
			msg = "Invalid value."
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// fileURL builds the absolute link the list endpoints put in "file".
func fileURL(c echo.Context) func(printoutFile) string {
	base := c.Scheme() + "://" + c.Request().Host
	return func(f printoutFile) string {
		return fmt.Sprintf("%s/stationery/admin/printout-files/%d/download/", base, f.ID)
	}
}

// --- auth ---

func (a *API) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "Email and password are required")
	}
	id, err := a.store.Authenticate(req.Email, req.Password)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	}
	pair, err := a.tokens.Issue(id)
	if err != nil {
		return err
	}
	a.log.Info().Int64("user_id", id.ID).Str("role", id.Role).Msg("login")
	return c.JSON(http.StatusOK, pair)
}

func (a *API) register(c echo.Context) error {
	var req domain.Registration
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := a.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}
	id, err := a.store.AddUser(req)
	if errors.Is(err, errEmailTaken) {
		return c.JSON(http.StatusBadRequest, map[string][]string{"email": {errEmailTaken.Error()}})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, id)
}

func (a *API) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || a.validate.Struct(req) != nil {
		return c.JSON(http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
	}
	claims, err := a.tokens.ParseRefresh(req.Refresh)
	if err != nil || a.store.Revoked(claims.JTI) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": errInvalidToken.Error(), "code": "token_not_valid"})
	}
	id, err := a.store.User(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "User not found", "code": "user_not_found"})
	}
	pair, err := a.tokens.Issue(id)
	if err != nil {
		return err
	}
	// Rotation: the presented refresh token cannot be used again.
	a.store.Revoke(claims.JTI)
	return c.JSON(http.StatusOK, pair)
}

func (a *API) logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil || a.validate.Struct(req) != nil {
		return errorJSON(c, http.StatusBadRequest, "Refresh token is required")
	}
	claims, err := a.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid token")
	}
	a.store.Revoke(claims.JTI)
	return c.NoContent(http.StatusResetContent)
}

func (a *API) userDetails(c echo.Context) error {
	id, err := a.store.User(callerID(c))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, id)
}

// --- admin lists and stats ---

func (a *API) allOrders(scope domain.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, a.store.OrderRows(scope, nil))
	}
}

func (a *API) allPrintouts(scope domain.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, a.store.PrintoutRows(scope, nil, fileURL(c)))
	}
}

func (a *API) myOrders(scope domain.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, a.store.OrderRows(scope, ownedBy(callerID(c))))
	}
}

func (a *API) myPrintouts(scope domain.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, a.store.PrintoutRows(scope, ownedBy(callerID(c)), fileURL(c)))
	}
}

func (a *API) dashboardStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.store.Stats())
}

// --- single records ---

func (a *API) orderDetails(c echo.Context) error {
	id, ok := pathID(c, "order_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Order not found")
	}
	d, err := a.store.OrderDetail(id)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "Order not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (a *API) printoutDetails(c echo.Context) error {
	id, ok := pathID(c, "order_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Printout not found")
	}
	d, err := a.store.PrintoutDetail(id, fileURL(c))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "Printout not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (a *API) completeOrder(c echo.Context) error {
	id, ok := pathID(c, "order_id")
	if !ok || a.store.CompleteOrder(id) != nil {
		return errorJSON(c, http.StatusNotFound, "Order not found")
	}
	a.log.Info().Int64("order_id", id).Msg("order completed")
	return c.JSON(http.StatusOK, completion{Message: "Order marked as completed", OrderID: id})
}

func (a *API) completePrintout(c echo.Context) error {
	id, ok := pathID(c, "order_id")
	if !ok || a.store.CompletePrintout(id) != nil {
		return errorJSON(c, http.StatusNotFound, "Printout not found")
	}
	a.log.Info().Int64("order_id", id).Msg("printout completed")
	return c.JSON(http.StatusOK, completion{Message: "Printout marked as completed", OrderID: id})
}

// --- files ---

func (a *API) downloadPrintout(c echo.Context) error {
	id, ok := pathID(c, "order_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Printout not found")
	}
	f, err := a.store.PrintoutFile(id)
	switch {
	case errors.Is(err, errNoFile):
		return errorJSON(c, http.StatusNotFound, errNoFile.Error())
	case err != nil:
		return errorJSON(c, http.StatusNotFound, "Printout not found")
	}
	return serveFile(c, f)
}

func (a *API) downloadPrintoutFile(c echo.Context) error {
	id, ok := pathID(c, "file_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "File not found")
	}
	f, err := a.store.FileByID(id)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "File not found")
	}
	return serveFile(c, f)
}

func serveFile(c echo.Context, f printoutFile) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	return c.Blob(http.StatusOK, "application/pdf", f.Data)
}

// --- inventory ---

func (a *API) itemList(c echo.Context) error {
	return c.JSON(http.StatusOK, a.store.Items())
}

func (a *API) createItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := a.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	it := a.store.CreateItem(req.Item, req.Price, inStock)
	return c.JSON(http.StatusCreated, domain.ItemMutation{Message: "Item created successfully", Item: it})
}

func (a *API) updateItem(c echo.Context) error {
	id, ok := pathID(c, "item_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	var in domain.ItemInput
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := a.validate.Struct(in); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}
	it, err := a.store.UpdateItem(id, in)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	return c.JSON(http.StatusOK, domain.ItemMutation{Message: "Item updated successfully", Item: it})
}

func (a *API) deleteItem(c echo.Context) error {
	id, ok := pathID(c, "item_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	name, err := a.store.DeleteItem(id)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	return c.JSON(http.StatusOK, domain.MessageResponse{Message: fmt.Sprintf("Item %q deleted successfully", name)})
}

func (a *API) toggleStock(c echo.Context) error {
	id, ok := pathID(c, "item_id")
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	it, err := a.store.ToggleStock(id)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "Item not found")
	}
	return c.JSON(http.StatusOK, domain.StockToggle{Message: "Item stock status updated", ItemID: it.ID, InStock: it.InStock})
}
