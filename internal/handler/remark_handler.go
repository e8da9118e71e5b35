package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"remarkly/internal/auth"
	"remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/service"
)

// RemarkHandler handles remark endpoints.
type RemarkHandler struct {
	remarkService service.RemarkService
}

// NewRemarkHandler creates a new remark handler.
func NewRemarkHandler(remarkService service.RemarkService) *RemarkHandler {
	return &RemarkHandler{remarkService: remarkService}
}

// CreateRemarkRequest represents a remark creation request.
type CreateRemarkRequest struct {
	Name          string           `json:"name"`
	MobileNumber  string           `json:"mobileNumber"`
	FromAddress   string           `json:"fromAddress"`
	ToAddress     string           `json:"toAddress"`
	Date          string           `json:"date" validate:"required"`
	Content       string           `json:"content" validate:"required"`
	Done          *bool            `json:"done"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	AdvanceAmount *decimal.Decimal `json:"advanceAmount"`
	SpecialNote   string           `json:"specialNote"`
	Priority      string           `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateRemarkRequest represents a partial remark update. Pointer fields
// distinguish an omitted key from an explicitly supplied zero value.
type UpdateRemarkRequest struct {
	Name          *string          `json:"name"`
	MobileNumber  *string          `json:"mobileNumber"`
	FromAddress   *string          `json:"fromAddress"`
	ToAddress     *string          `json:"toAddress"`
	Date          *string          `json:"date"`
	Content       *string          `json:"content"`
	Done          *bool            `json:"done"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	AdvanceAmount *decimal.Decimal `json:"advanceAmount"`
	SpecialNote   *string          `json:"specialNote"`
	Priority      *string          `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// MessageResponse is a bare acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// parseDate accepts the date formats clients send; day-only values are
// interpreted in local time.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidDate
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "not authenticated",
			Code:  "UNAUTHENTICATED",
		})
	}
	return user, nil
}

func mapServiceError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Create godoc
// @Summary Create a remark
// @Tags remarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRemarkRequest true "Remark payload"
// @Success 201 {object} model.Remark
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /remarks [post]
func (h *RemarkHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateRemarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return mapServiceError(err)
	}

	remark, err := h.remarkService.Create(c.Request().Context(), user.ID, service.CreateRemarkInput{
		Name:          req.Name,
		MobileNumber:  req.MobileNumber,
		FromAddress:   req.FromAddress,
		ToAddress:     req.ToAddress,
		Date:          date,
		Content:       req.Content,
		Done:          req.Done,
		TotalAmount:   req.TotalAmount,
		AdvanceAmount: req.AdvanceAmount,
		SpecialNote:   req.SpecialNote,
		Priority:      model.Priority(req.Priority),
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, remark)
}

// ListAll godoc
// @Summary List all remarks of the caller
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Remark
// @Failure 401 {object} errors.ErrorResponse
// @Router /remarks [get]
func (h *RemarkHandler) ListAll(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	remarks, err := h.remarkService.ListAll(c.Request().Context(), user.ID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remarks)
}

// ListByDate godoc
// @Summary List remarks on a calendar day
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} model.Remark
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /remarks/{date} [get]
func (h *RemarkHandler) ListByDate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	day, err := parseDate(c.Param("date"))
	if err != nil {
		return mapServiceError(err)
	}

	remarks, err := h.remarkService.ListByDay(c.Request().Context(), user.ID, day)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remarks)
}

// ListByStatus godoc
// @Summary List remarks by completion status
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Param status path string true "done or pending"
// @Success 200 {array} model.Remark
// @Failure 401 {object} errors.ErrorResponse
// @Router /remarks/status/{status} [get]
func (h *RemarkHandler) ListByStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	// anything other than "done" means not done
	done := c.Param("status") == "done"

	remarks, err := h.remarkService.ListByStatus(c.Request().Context(), user.ID, done)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remarks)
}

// ListByPriority godoc
// @Summary List remarks by priority
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Param priority path string true "low, medium or high"
// @Success 200 {array} model.Remark
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /remarks/priority/{priority} [get]
func (h *RemarkHandler) ListByPriority(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	remarks, err := h.remarkService.ListByPriority(c.Request().Context(), user.ID, c.Param("priority"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remarks)
}

// FinancialSummary godoc
// @Summary Aggregate financials across the caller's remarks
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.FinancialSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /remarks/financial/summary [get]
func (h *RemarkHandler) FinancialSummary(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	summary, err := h.remarkService.FinancialSummary(c.Request().Context(), user.ID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Update godoc
// @Summary Update a remark
// @Tags remarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Remark ID"
// @Param request body UpdateRemarkRequest true "Partial remark payload"
// @Success 200 {object} model.Remark
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /remarks/{id} [put]
func (h *RemarkHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	remarkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid remark ID",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateRemarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.UpdateRemarkInput{
		Name:          req.Name,
		MobileNumber:  req.MobileNumber,
		FromAddress:   req.FromAddress,
		ToAddress:     req.ToAddress,
		Content:       req.Content,
		Done:          req.Done,
		TotalAmount:   req.TotalAmount,
		AdvanceAmount: req.AdvanceAmount,
		SpecialNote:   req.SpecialNote,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			return mapServiceError(err)
		}
		in.Date = &date
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		in.Priority = &p
	}

	remark, err := h.remarkService.Update(c.Request().Context(), user.ID, remarkID, in)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remark)
}

// ToggleDone godoc
// @Summary Toggle a remark's done flag
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Remark ID"
// @Success 200 {object} model.Remark
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /remarks/{id}/toggle-done [patch]
func (h *RemarkHandler) ToggleDone(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	remarkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid remark ID",
			Code:  "INVALID_UUID",
		})
	}

	remark, err := h.remarkService.ToggleDone(c.Request().Context(), user.ID, remarkID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, remark)
}

// Delete godoc
// @Summary Delete a remark
// @Tags remarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Remark ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /remarks/{id} [delete]
func (h *RemarkHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	remarkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid remark ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.remarkService.Delete(c.Request().Context(), user.ID, remarkID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Remark removed"})
}
