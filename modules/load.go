package modules

import (
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/application"
)

var BuiltInModules = []application.Module{
	resourcing.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	modules := append(BuiltInModules, externalModules...)
	return app.RegisterModule(modules...)
}
