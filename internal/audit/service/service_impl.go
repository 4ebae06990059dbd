package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/pharmatrade/medinv/internal/audit/domain"
	"github.com/pharmatrade/medinv/internal/companyctx"
	"github.com/pharmatrade/medinv/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node

	auditrepo repository.Repository[auditdomain.AuditLog]
}

func NewService(p ServiceParam) auditdomain.Recorder {
	return &Service{
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,

		auditrepo: repository.ProvideStore[auditdomain.AuditLog](p.DB),
	}
}

// Record appends one audit row. Failures are logged and swallowed so the
// business operation that already committed is never failed retroactively.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) {
	companyID, _ := companyctx.CompanyIDFromContext(ctx)

	row := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		CompanyID:  snowflake.ID(companyID),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Changes:    datatypes.JSONMap(entry.Changes),
	}

	if err := s.auditrepo.Create(ctx, row); err != nil {
		s.log.Warn("failed to record audit entry",
			zap.String("entity_type", entry.EntityType),
			zap.Int64("entity_id", int64(entry.EntityID)),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
