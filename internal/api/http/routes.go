package httpapi

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agroyield/crop-yield-service/internal/session"
	"github.com/agroyield/crop-yield-service/internal/yield"
)

var validate = validator.New()

// sessionHeader carries the optional dashboard session token. When present
// on /predict, the resulting estimate is recorded into that session's history.
const sessionHeader = "X-Session-Token"

// NewApp builds the Fiber app with the centralized error handler: every
// handler error becomes a JSON body of the form {"detail": "..."}.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "crop-yield-service",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"detail": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	return app
}

// predictRequest is the body of POST /predict.
type predictRequest struct {
	District     string `json:"district" validate:"required"`
	Crop         string `json:"crop"`
	PlantingDate string `json:"planting_date" validate:"required"`
}

// loginRequest is the body of POST /api/v1/session/login.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *yield.Service, sessions *session.Manager) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":       "healthy",
			"model_loaded": true,
		})
	})

	app.Post("/predict", func(c *fiber.Ctx) error {
		var req predictRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		estimate, err := service.PredictYield(c.Context(), yield.Request{
			District:     req.District,
			Crop:         req.Crop,
			PlantingDate: req.PlantingDate,
		})
		if err != nil {
			return mapPredictionError(err)
		}

		if token := c.Get(sessionHeader); token != "" && sessions != nil {
			if err := sessions.Record(token, estimate); err != nil {
				log.Printf("session record failed: %v", err)
			}
		}

		return c.JSON(fiber.Map{
			"status":               "success",
			"district":             estimate.District,
			"crop":                 estimate.Crop,
			"planting_date":        estimate.PlantingDate,
			"predicted_yield_t_ha": estimate.YieldTPerHa,
			"message":              estimate.Message,
			"note":                 estimate.Note,
		})
	})

	registerSessionRoutes(app, sessions)
}

// mapPredictionError translates pipeline errors into HTTP responses: client
// input errors are surfaced verbatim as 400, an empty forecast window as 502,
// anything else as a generic 500.
func mapPredictionError(err error) error {
	switch {
	case errors.Is(err, yield.ErrUnknownDistrict),
		errors.Is(err, yield.ErrBadPlantingDate),
		errors.Is(err, yield.ErrFutureDate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, yield.ErrNoWeatherData), errors.Is(err, yield.ErrNoData):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		log.Printf("prediction failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

func registerSessionRoutes(app *fiber.App, sessions *session.Manager) {
	if sessions == nil {
		return
	}

	v1 := app.Group("/api/v1/session")

	v1.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		token, err := sessions.Login(req.Username, req.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"token": token})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		history, err := sessions.History(c.Get(sessionHeader))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"predictions": history})
	})

	v1.Post("/clear", func(c *fiber.Ctx) error {
		if err := sessions.Clear(c.Get(sessionHeader)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"status": "cleared"})
	})

	v1.Post("/logout", func(c *fiber.Ctx) error {
		if err := sessions.Logout(c.Get(sessionHeader)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.JSON(fiber.Map{"status": "logged out"})
	})
}
