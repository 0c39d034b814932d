package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cropguard/backend/internal/assessment"
	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/validate"
	"github.com/cropguard/backend/internal/view"
)

const (
	SessionCookie = "cropguard_session"
	SessionHeader = "X-Session-Id"
)

type Handler struct {
	Sessions       *assessment.Registry
	Validator      *validator.Validate
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	CookieSecure   bool
	WebhookMode    string
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"webhook":  h.WebhookMode,
		"sessions": h.Sessions.Len(),
	})
}

func (h *Handler) Index(c *gin.Context) {
	flow := h.flow(c)
	form := view.ShipmentForm{}
	if in, ok := flow.LastInput(); ok {
		form = view.FormFromInput(in)
	}
	c.HTML(http.StatusOK, "index.html", view.NewPage(form, nil, flow.Current()))
}

func (h *Handler) Assess(c *gin.Context) {
	flow := h.flow(c)

	var form view.ShipmentForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "index.html", view.NewPage(form, map[string]string{"form": err.Error()}, flow.Current()))
		return
	}
	in, errs := form.Input()
	if err := validate.Shipment(h.Validator, in); err != nil {
		var fe validate.FieldErrors
		if !errors.As(err, &fe) {
			errs["form"] = err.Error()
		}
		for k, v := range fe {
			if _, ok := errs[k]; !ok {
				errs[k] = v
			}
		}
	}
	if len(errs) > 0 {
		c.HTML(http.StatusBadRequest, "index.html", view.NewPage(form, errs, flow.Current()))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()
	if _, err := flow.Submit(ctx, in); err != nil {
		if errors.Is(err, assessment.ErrInFlight) {
			c.HTML(http.StatusConflict, "index.html", view.NewPage(form, map[string]string{"form": err.Error()}, flow.Current()))
			return
		}
		h.Logger.Error().Err(err).Msg("submit failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Retry(c *gin.Context) {
	flow := h.flow(c)
	ctx, cancel := h.requestContext(c)
	defer cancel()
	if _, err := flow.Retry(ctx); err != nil && !errors.Is(err, assessment.ErrNothingToRetry) {
		if errors.Is(err, assessment.ErrInFlight) {
			c.HTML(http.StatusConflict, "index.html", view.NewPage(view.ShipmentForm{}, map[string]string{"form": err.Error()}, flow.Current()))
			return
		}
		h.Logger.Error().Err(err).Msg("retry failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Reset(c *gin.Context) {
	h.flow(c).Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

// @Summary Submit a shipment for spoilage risk assessment
// @Description Posts the shipment to the analysis webhook and returns the settled outcome
// @Tags assessments
// @Accept json
// @Produce json
// @Param shipment body models.ShipmentInput true "Shipment"
// @Success 200 {object} models.Outcome
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/assessments [post]
func (h *Handler) CreateAssessment(c *gin.Context) {
	flow := h.flow(c)

	var in models.ShipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	in = in.Trimmed()
	if err := validate.Shipment(h.Validator, in); err != nil {
		var fe validate.FieldErrors
		if errors.As(err, &fe) {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fe)
			return
		}
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()
	out, err := flow.Submit(ctx, in)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Retry the last submission
// @Tags assessments
// @Produce json
// @Success 200 {object} models.Outcome
// @Failure 409 {object} map[string]any
// @Router /api/assessments/retry [post]
func (h *Handler) RetryAssessment(c *gin.Context) {
	flow := h.flow(c)
	ctx, cancel := h.requestContext(c)
	defer cancel()
	out, err := flow.Retry(ctx)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Current outcome for the session
// @Tags assessments
// @Produce json
// @Success 200 {object} models.Outcome
// @Router /api/assessments/current [get]
func (h *Handler) CurrentAssessment(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow(c).Current())
}

// @Summary Clear the outcome for the session
// @Tags assessments
// @Success 204
// @Router /api/assessments/current [delete]
func (h *Handler) ResetAssessment(c *gin.Context) {
	h.flow(c).Reset()
	c.Status(http.StatusNoContent)
}

// flow resolves the visitor session from the header or cookie and hands the
// id back on both.
func (h *Handler) flow(c *gin.Context) *assessment.Flow {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id, _ = c.Cookie(SessionCookie)
	}
	id, flow := h.Sessions.Session(id)
	c.Header(SessionHeader, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.SessionTTL.Seconds()), "/", "", h.CookieSecure, true)
	return flow
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.RequestTimeout)
}

func (h *Handler) writeFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrInFlight):
		writeError(c, http.StatusConflict, "IN_FLIGHT", err.Error(), nil)
	case errors.Is(err, assessment.ErrNothingToRetry):
		writeError(c, http.StatusConflict, "NOTHING_TO_RETRY", err.Error(), nil)
	default:
		h.Logger.Error().Err(err).Msg("assessment failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Assessment failed", err.Error())
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
