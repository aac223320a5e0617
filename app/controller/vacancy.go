package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-autoapply/app/dto"
	"github.com/vibast-solutions/ms-go-autoapply/app/queue"
	"github.com/vibast-solutions/ms-go-autoapply/app/service"
)

// Publisher pushes a vacancy envelope onto the event stream.
type Publisher interface {
	Publish(ctx context.Context, msg queue.VacancyMessage) error
}

type VacancyController struct {
	producer Publisher
	stats    *service.Stats
}

// NewVacancyController constructs the HTTP vacancy controller.
func NewVacancyController(producer Publisher, stats *service.Stats) *VacancyController {
	return &VacancyController{producer: producer, stats: stats}
}

// Publish validates a vacancy event and enqueues it for the consumer.
// Delivery is asynchronous, so a valid event is accepted, not completed.
func (c *VacancyController) Publish(ctx echo.Context) error {
	ev, err := dto.FromEchoContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := ev.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to encode event"})
	}

	source := ctx.Request().Header.Get("X-Event-Source")
	if source == "" {
		source = "http"
	}

	if err := c.producer.Publish(ctx.Request().Context(), queue.VacancyMessage{
		Source:  source,
		Payload: string(payload),
	}); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to queue event"})
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{"message": "vacancy event accepted"})
}

// Stats reports dispatch counters for the running process.
func (c *VacancyController) Stats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.stats.Snapshot())
}
