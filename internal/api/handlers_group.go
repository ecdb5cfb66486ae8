package api

import "Crosspost/internal/api/handler"

type HandlersGroup struct {
	JobHandler    *handler.JobHandler
	HealthHandler *handler.HealthHandler
}
