package resourcing

import (
	"embed"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/infrastructure/persistence"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/presentation/controllers"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/application"
)

//go:embed infrastructure/persistence/schema/resourcing-schema.sql
var SchemaFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchemaFS(&SchemaFiles)

	allocations := persistence.NewAllocationRepository()
	resources := persistence.NewResourceRepository()
	conflicts := persistence.NewConflictRepository()
	dailyLoads := persistence.NewDailyLoadRepository()
	configs := persistence.NewOrgSettingsRepository()
	workspaces := persistence.NewWorkspaceDirectory()

	allocationService := services.NewAllocationService(allocations, resources, conflicts, configs, app.EventPublisher())
	dailyLoadService := services.NewDailyLoadService(allocations, resources, dailyLoads, configs)
	riskService := services.NewRiskService(allocations, resources, conflicts, dailyLoads, workspaces)
	app.RegisterServices(
		allocationService,
		dailyLoadService,
		riskService,
	)

	refresher := services.NewDailyLoadRefresher(dailyLoadService, app.DB(), app.Logger())
	app.EventPublisher().Subscribe(refresher.OnAllocationCreated)
	app.EventPublisher().Subscribe(refresher.OnAllocationUpdated)
	app.EventPublisher().Subscribe(refresher.OnAllocationDeleted)

	app.RegisterControllers(
		controllers.NewResourcingController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "resourcing"
}
