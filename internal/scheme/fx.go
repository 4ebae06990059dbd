package scheme

import (
	"github.com/pharmatrade/medinv/internal/scheme/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scheme.service",
	fx.Provide(service.NewService),
	fx.Provide(service.NewApplier),
)
