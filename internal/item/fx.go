package item

import (
	"github.com/pharmatrade/medinv/internal/item/service"
	"go.uber.org/fx"
)

var Module = fx.Module("item.service",
	fx.Provide(service.NewService),
)
