package carton

import (
	"github.com/pharmatrade/medinv/internal/carton/service"
	"go.uber.org/fx"
)

var Module = fx.Module("carton.service",
	fx.Provide(service.NewService),
)
