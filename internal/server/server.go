package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pharmatrade/medinv/internal/account"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/pharmatrade/medinv/internal/audit"
	"github.com/pharmatrade/medinv/internal/carton"
	"github.com/pharmatrade/medinv/internal/clock"
	"github.com/pharmatrade/medinv/internal/companyctx"
	"github.com/pharmatrade/medinv/internal/config"
	"github.com/pharmatrade/medinv/internal/invoice"
	invoicedomain "github.com/pharmatrade/medinv/internal/invoice/domain"
	"github.com/pharmatrade/medinv/internal/item"
	itemdomain "github.com/pharmatrade/medinv/internal/item/domain"
	"github.com/pharmatrade/medinv/internal/ledger"
	"github.com/pharmatrade/medinv/internal/metrics"
	"github.com/pharmatrade/medinv/internal/scheme"
	schemedomain "github.com/pharmatrade/medinv/internal/scheme/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	clock.Module,
	metrics.Module,
	fx.Provide(registerGin),
	audit.Module,
	account.Module,
	item.Module,
	carton.Module,
	scheme.Module,
	ledger.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CompanyMiddleware(cfg))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(cfg, log, m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	invoiceSvc invoicedomain.Service
	accountSvc accountdomain.Service
	itemSvc    itemdomain.Service
	schemeSvc  schemedomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	InvoiceSvc invoicedomain.Service
	AccountSvc accountdomain.Service
	ItemSvc    itemdomain.Service
	SchemeSvc  schemedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		invoiceSvc: p.InvoiceSvc,
		accountSvc: p.AccountSvc,
		itemSvc:    p.ItemSvc,
		schemeSvc:  p.SchemeSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	invoices := api.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.POST("", s.CreateInvoice)
	invoices.GET("/next-number", s.NextInvoiceNumber)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.PATCH("/:id", s.UpdateInvoice)
	invoices.POST("/:id/confirm", s.ConfirmInvoice)
	invoices.POST("/:id/pay", s.MarkInvoicePaid)
	invoices.POST("/:id/cancel", s.CancelInvoice)
	invoices.POST("/:id/items", s.AddInvoiceItem)
	invoices.DELETE("/:id/items/:lineId", s.RemoveInvoiceItem)

	accounts := api.Group("/accounts")
	accounts.GET("", s.ListAccounts)
	accounts.POST("", s.CreateAccount)
	accounts.GET("/:id", s.GetAccountByID)

	items := api.Group("/items")
	items.GET("", s.ListItems)
	items.POST("", s.CreateItem)
	items.GET("/:id", s.GetItemByID)

	schemes := api.Group("/schemes")
	schemes.GET("", s.ListSchemes)
	schemes.POST("", s.CreateScheme)
	schemes.GET("/:id", s.GetSchemeByID)
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// CompanyMiddleware scopes every request to a company. The X-Company-ID
// header wins; the configured default covers single-tenant deployments.
func CompanyMiddleware(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := cfg.DefaultCompanyID
		if header := c.GetHeader("X-Company-ID"); header != "" {
			if id, err := snowflake.ParseString(header); err == nil {
				companyID = int64(id)
			}
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), companyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
