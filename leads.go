package caravansite

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// leadFormSpec declares the shape of one public lead-capture form: which
// collection it writes to, the fields it accepts, and which of them must
// be non-empty.
type leadFormSpec struct {
	collection string
	kind       string // thank-you view variant
	fields     []string
	required   []string
	consent    bool
}

var brochureFormSpec = leadFormSpec{
	collection: CollectionBrochureRequests,
	kind:       "brochure",
	fields: []string{
		"modelId", "modelName", "fullName", "email",
		"phone", "phoneCode", "state", "postalCode", "message",
	},
	required: []string{"fullName", "email"},
}

var quoteFormSpec = leadFormSpec{
	collection: CollectionQuoteRequests,
	kind:       "quote",
	fields: []string{
		"caravanType", "floorplan", "firstName", "lastName", "email",
		"phone", "phoneCode", "country", "postalCode", "message",
	},
	required: []string{"firstName", "lastName", "email"},
	consent:  true,
}

var inquiryFormSpec = leadFormSpec{
	collection: CollectionInquiries,
	kind:       "contact",
	fields:     []string{"name", "email", "subject", "message", "phone", "phoneCode"},
	required:   []string{"name", "email", "message"},
}

var warrantyFormSpec = leadFormSpec{
	collection: CollectionWarrantyClaims,
	kind:       "warranty",
	fields: []string{
		"fullName", "email", "phone", "phoneCode",
		"dealerName", "chassisNumber", "reason", "message",
	},
	required: []string{"fullName", "email", "chassisNumber", "reason"},
}

func (a *App) handleBrochureRequest(c echo.Context) error {
	return a.handleLeadSubmit(c, brochureFormSpec)
}

func (a *App) handleQuoteRequest(c echo.Context) error {
	return a.handleLeadSubmit(c, quoteFormSpec)
}

func (a *App) handleInquiry(c echo.Context) error {
	return a.handleLeadSubmit(c, inquiryFormSpec)
}

func (a *App) handleWarrantyClaim(c echo.Context) error {
	return a.handleLeadSubmit(c, warrantyFormSpec)
}

// handleLeadSubmit builds a fresh LeadForm from the posted values and
// performs its single write. Validation failures never reach the store;
// write failures surface as a generic notice with the original error kept
// to the log.
func (a *App) handleLeadSubmit(c echo.Context, spec leadFormSpec) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	form := NewLeadForm(a.Store, spec.collection, spec.required)
	for _, name := range spec.fields {
		form.SetField(name, strings.TrimSpace(c.FormValue(name)))
	}
	if spec.consent {
		form.RequireConsent()
		form.SetConsent(c.FormValue("agreeTerms") != "")
	}

	err := form.Submit(c.Request().Context())
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		a.Metrics.RecordLeadValidationFailure()
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":  "Please fill in all required fields.",
			"fields": verr.Missing,
		})
	case err != nil:
		a.Metrics.RecordLeadWriteFailure()
		c.Logger().Errorf("lead submit %s: %v", spec.collection, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Something went wrong. Please try again.",
		})
	}

	a.Metrics.RecordLeadSubmitted(spec.collection)
	if c.Request().Header.Get("HX-Request") == "true" || a.Views.ThankYou == nil {
		return c.JSON(http.StatusCreated, map[string]string{"status": "ok"})
	}
	return Render(c, a.Views.ThankYou(spec.kind))
}
