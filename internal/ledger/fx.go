package ledger

import (
	"github.com/pharmatrade/medinv/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
	fx.Provide(service.AsBalanceCalculator),
	fx.Provide(service.AsLedgerPoster),
)
