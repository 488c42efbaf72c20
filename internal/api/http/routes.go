package httpapi

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/widget"
)

// SessionCookie holds the id of the browser's mounted widget.
const SessionCookie = "widget_session"

var validate = validator.New()

//go:embed templates/widget.html
var widgetHTML string

var page = template.Must(template.New("widget").Parse(widgetHTML))

// RegisterRoutes wires the HTML and JSON widget handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *session.MemoryStore, clock widget.Clock, logger *zap.Logger) {
	if clock == nil {
		clock = widget.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mount := func(c *fiber.Ctx) *widget.Widget {
		id := c.Cookies(SessionCookie)
		if validate.Var(id, "required,uuid4") != nil {
			id = ""
		}

		id, w, created := sessions.GetOrCreate(id)
		if created {
			logger.Debug("mounted widget session", zap.String("session", id))
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		return w
	}

	// HTML frontend.
	app.Get("/", func(c *fiber.Ctx) error {
		w := mount(c)

		var buf bytes.Buffer
		if err := page.Execute(&buf, widget.Render(w.State(), clock.Now())); err != nil {
			logger.Error("failed to render widget", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render widget")
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	app.Post("/search", func(c *fiber.Ctx) error {
		w := mount(c)
		// Fiber strings alias the request buffer; the widget keeps the query.
		w.Search(c.UserContext(), utils.CopyString(c.FormValue("location")))
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	app.Post("/reset", func(c *fiber.Ctx) error {
		mount(c).ResetSearch()
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	// JSON API over the same session widget.
	v1 := app.Group("/api/v1/widget")

	v1.Get("", func(c *fiber.Ctx) error {
		return c.JSON(newStateResponse(mount(c), clock))
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w := mount(c)
		w.Search(c.UserContext(), utils.CopyString(req.Location))
		return c.JSON(newStateResponse(w, clock))
	})

	v1.Post("/reset", func(c *fiber.Ctx) error {
		w := mount(c)
		w.ResetSearch()
		return c.JSON(newStateResponse(w, clock))
	})

	v1.Put("/hover", func(c *fiber.Ctx) error {
		var req hoverRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w := mount(c)
		w.SetHovered(*req.Hovered)
		return c.JSON(newStateResponse(w, clock))
	})
}

// searchRequest carries the raw text field. An empty location is not a
// request error; the widget records the validation message itself.
type searchRequest struct {
	Location string `json:"location" form:"location"`
}

type hoverRequest struct {
	Hovered *bool `json:"hovered" form:"hovered" validate:"required"`
}

type stateResponse struct {
	State widget.InteractionState `json:"state"`
	View  widget.View             `json:"view"`
}

func newStateResponse(w *widget.Widget, clock widget.Clock) stateResponse {
	s := w.State()
	return stateResponse{
		State: s,
		View:  widget.Render(s, clock.Now()),
	}
}
