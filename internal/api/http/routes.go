package httpapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weatherstack-dashboard/internal/store"
	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

type handlers struct {
	service  *weather.Service
	sessions *store.Registry
	logger   *slog.Logger
}

// RegisterRoutes wires the dashboard handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, sessions *store.Registry, logger *slog.Logger) {
	h := &handlers{service: service, sessions: sessions, logger: logger}

	v1 := app.Group("/api/v1")
	v1.Post("/sessions", h.createSession)

	s := v1.Group("/sessions/:id")
	s.Get("/", h.view)
	s.Delete("/", h.deleteSession)
	s.Put("/tab", h.setTab)
	s.Post("/search", h.search)
	s.Put("/historical-date", h.selectDate)
	s.Post("/locations/select", h.selectLocation)
	s.Delete("/error", h.clearError)
	s.Delete("/payloads", h.clearPayloads)
}

// ErrorHandler renders every handler error as a JSON body with the matching
// status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func (h *handlers) createSession(c *fiber.Ctx) error {
	s := h.sessions.Create()
	h.logger.Info("session created", "session", s.ID())
	return c.Status(fiber.StatusCreated).JSON(s.View())
}

func (h *handlers) view(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(s.View())
}

func (h *handlers) deleteSession(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return notFound(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) setTab(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req tabRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tab, err := weather.ParseCategory(req.Tab)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	s.SetActiveTab(tab)
	return c.JSON(s.View())
}

// search submits on the active tab. Upstream and validation failures are
// reported through the view's error field, not the status code.
func (h *handlers) search(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	filters, err := req.filters()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q := weather.Query{Text: req.Query, Category: s.ActiveTab()}
	if err := h.service.Submit(c.UserContext(), s, q, filters); err != nil {
		h.logger.Debug("submission did not load data", "session", s.ID(), "tab", q.Category, "error", err)
	}
	return c.JSON(s.View())
}

func (h *handlers) selectDate(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req dateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date, _ := time.Parse(dateLayout, req.Date)
	if err := h.service.SelectHistoricalDate(c.UserContext(), s, date); err != nil {
		h.logger.Debug("historical date load failed", "session", s.ID(), "error", err)
	}
	return c.JSON(s.View())
}

func (h *handlers) selectLocation(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	place := req.Name
	if req.Index != nil {
		if place, err = pickedLocation(s, *req.Index); err != nil {
			return err
		}
	}
	if err := h.service.SelectLocation(c.UserContext(), s, place); err != nil {
		h.logger.Debug("selected location load failed", "session", s.ID(), "error", err)
	}
	return c.JSON(s.View())
}

func (h *handlers) clearError(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.ClearError()
	return c.JSON(s.View())
}

func (h *handlers) clearPayloads(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.ClearPayloads()
	return c.JSON(s.View())
}

func (h *handlers) session(c *fiber.Ctx) (*store.Session, error) {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// pickedLocation returns the query text for the i-th cached search result.
func pickedLocation(s *store.Session, i int) (string, error) {
	p, _ := s.Payload(weather.CategoryLocation)
	results, ok := p.(weather.LocationPayload)
	if !ok || i >= len(results.Results) {
		return "", fiber.NewError(fiber.StatusBadRequest, "no location search result at that index")
	}
	return results.Results[i].Label(), nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
