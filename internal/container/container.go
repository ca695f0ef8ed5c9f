package container

import (
	app "porosity-bot/internal/application"
	"porosity-bot/internal/domain/port"
)

type Container struct {
	SessionService  *app.SessionService
	AnalysisService *app.AnalysisService
}

func New(sessionRepo port.SessionRepository, deps app.AnalysisDeps) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	analysisService := app.NewAnalysisService(sessionService, deps)

	return &Container{
		SessionService:  sessionService,
		AnalysisService: analysisService,
	}
}
