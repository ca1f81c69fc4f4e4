package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"

	"github.com/SethRoll3/AcercateSys-sub001/internal/app/handlers"
	"github.com/SethRoll3/AcercateSys-sub001/internal/app/middleware"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/config"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	redisdb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/redis"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/clients"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/inapp_notifications"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/installments"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/loans"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/notification_log"
	paymentstore "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/payments"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/receipts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/settings"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/impl/templates"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/delinquency"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/notify"
	paymentsvc "github.com/SethRoll3/AcercateSys-sub001/internal/service/payments"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/schedule"
	settingsvc "github.com/SethRoll3/AcercateSys-sub001/internal/service/settings"
)

func SetupRouter(ctx context.Context, cfg *config.AppConfig,
	mongoClient *mongodb.MongoClient, redisClient *redisdb.RedisClient) *gin.Engine {
	server := gin.New()

	meter := otel.Meter("coopcredit")
	server.Use(
		gin.Recovery(),
		middleware.TraceID(),
		otelgin.Middleware("coopcredit"),
		middleware.NewMetricMiddleware(meter),
	)

	loansRepo := loans.NewLoansRepository(mongoClient)
	installmentsRepo := installments.NewInstallmentsRepository(mongoClient)
	paymentsRepo := paymentstore.NewPaymentsRepository(mongoClient)
	receiptsRepo := receipts.NewReceiptsRepository(mongoClient)
	clientsRepo := clients.NewClientsRepository(mongoClient)
	inAppRepo := inapp_notifications.NewInAppNotificationsRepository(mongoClient)
	ledgerRepo := notification_log.NewNotificationLogRepository(mongoClient)
	templatesRepo := templates.NewTemplatesRepository(mongoClient)
	settingsRepo := settings.NewSettingsRepository(mongoClient, settings.Defaults{
		LateFeeAmount:      cfg.Engine.DefaultLateFee,
		Timezone:           cfg.Engine.DefaultTimezone,
		DefaultCountryCode: cfg.Engine.DefaultCountryCode,
	})

	sweepLock := repository.NewRedisStoreAdapter(redisClient.Client)
	txnRunner := repository.NewMongoTxnRunner(mongoClient.Client)

	location, err := time.LoadLocation(cfg.Engine.DefaultTimezone)
	if err != nil {
		logger.CtxWarn(ctx, "Falling back to UTC for schedule generation")
		location = time.UTC
	}

	outbound := []channels.Channel{
		channels.NewSMSChannel(cfg.Providers),
		channels.NewWhatsAppChannel(cfg.Providers),
	}
	dispatcher := notify.NewDispatcher(outbound, ledgerRepo, cfg.Providers.DispatchTimeout)
	renderer := notify.NewRenderer(templatesRepo)
	webhookProcessor := notify.NewWebhookProcessor(ledgerRepo)

	scheduleService := schedule.NewService(
		schedule.NewGenerator(location),
		loansRepo, installmentsRepo, paymentsRepo, receiptsRepo, txnRunner,
	)
	feeRecalculator := schedule.NewFeeRecalculator(installmentsRepo)

	sweepService := delinquency.NewSweep(
		loansRepo, installmentsRepo, clientsRepo, settingsRepo, inAppRepo,
		sweepLock, dispatcher, renderer,
		time.Duration(cfg.Engine.SweepLockTTLMinutes)*time.Minute,
	)

	paymentLifecycle := paymentsvc.NewLifecycle(
		loansRepo, installmentsRepo, paymentsRepo, receiptsRepo, clientsRepo,
		inAppRepo, paymentsvc.NewAuthorizer(clientsRepo),
	)

	settingsService := settingsvc.NewService(settingsRepo)

	healthCheckHandler := handlers.NewHealthCheckHandler()
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	sweepHandler := handlers.NewSweepHandler(sweepService, middleware.NewSweepMetrics(meter))
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, feeRecalculator)
	paymentHandler := handlers.NewPaymentHandler(paymentLifecycle)
	webhookHandler := handlers.NewWebhookHandler(webhookProcessor)

	base := server.Group("/IntegrationServices/CoopCredit")

	base.GET("/HealthCheck", healthCheckHandler.HealthCheck)
	base.POST("/Webhooks/:Channel/DeliveryStatus", webhookHandler.DeliveryStatus)

	internal := base.Group("", middleware.InternalToken(cfg.Auth.InternalToken))
	internal.POST("/Delinquency/Sweep", sweepHandler.RunSweep)
	internal.POST("/Loans/:LoanID/Schedule/Regenerate", scheduleHandler.Regenerate)
	internal.GET("/Loans/:LoanID/Schedule", scheduleHandler.GetSchedule)
	internal.GET("/Settings", settingsHandler.GetSettings)
	internal.PUT("/Settings", settingsHandler.UpdateSettings)

	actors := base.Group("", middleware.JWTActor(cfg.Auth.JWTSecret))
	actors.POST("/Payments", paymentHandler.Create)
	actors.PUT("/Payments/:PaymentID", paymentHandler.Edit)
	actors.POST("/Payments/:PaymentID/Review", paymentHandler.Review)
	actors.PUT("/Installments/:InstallmentID/Fees",
		middleware.RequireAnyRole(consts.RoleAdmin, consts.RoleAdvisor),
		scheduleHandler.UpdateInstallmentFees,
	)

	return server
}
