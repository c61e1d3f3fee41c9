package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admission-backend/internal/audit"
	"admission-backend/internal/auth"
	"admission-backend/internal/cache"
	"admission-backend/internal/config"
	"admission-backend/internal/database"
	"admission-backend/internal/db"
	"admission-backend/internal/handlers"
	"admission-backend/internal/health"
	h "admission-backend/internal/http"
	"admission-backend/internal/middleware"
	"admission-backend/internal/repositories"
	"admission-backend/internal/services"
	"admission-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; every caller degrades to the database when absent
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] cache unavailable: %v", err)
	} else {
		log.Println("[Redis] cache connected")
	}

	migrator := database.NewMigrator(pool)
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(migrateCtx); err != nil {
		cancel()
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()

	jwtManager := auth.NewJWTManager(cfg)
	healthChecker := health.NewChecker(pool)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	branchRepo := repositories.NewBranchRepository(pool)
	collegeRepo := repositories.NewCollegeRepository(pool)
	courseRepo := repositories.NewCourseRepository(pool)
	agentRepo := repositories.NewAgentRepository(pool)
	admissionRepo := repositories.NewAdmissionRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	agentPaymentRepo := repositories.NewAgentPaymentRepository(pool)
	voucherRepo := repositories.NewVoucherRepository(pool)
	daybookRepo := repositories.NewDaybookRepository(pool)
	cashbookRepo := repositories.NewCashbookRepository(pool)
	auditLogRepo := repositories.NewAuditLogRepository(pool)
	apiLogRepo := repositories.NewAPILogRepository(pool)
	systemSettingRepo := repositories.NewSystemSettingRepository(pool)
	onlineTxRepo := repositories.NewOnlineTransactionRepository(pool)

	auditRecorder := audit.NewRecorder(auditLogRepo)
	defer auditRecorder.Close()

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Printf("[Storage] object store unavailable: %v", err)
	}

	// Services
	userService := services.NewUserService(userRepo, jwtManager, auditRecorder)
	masterDataService := services.NewMasterDataService(branchRepo, collegeRepo, courseRepo, agentRepo, auditRecorder)
	admissionService := services.NewAdmissionService(admissionRepo, paymentRepo, auditRecorder)
	paymentService := services.NewPaymentService(
		paymentRepo, admissionRepo, voucherRepo, daybookRepo, cashbookRepo, admissionService, auditRecorder)
	agentPaymentService := services.NewAgentPaymentService(
		agentPaymentRepo, admissionRepo, agentRepo, voucherRepo, daybookRepo, cashbookRepo, admissionService, auditRecorder)
	voucherService := services.NewVoucherService(voucherRepo, branchRepo, auditRecorder)
	daybookService := services.NewDaybookService(daybookRepo, voucherRepo, cashbookRepo, auditRecorder)
	cashbookService := services.NewCashbookService(cashbookRepo, auditRecorder)
	onlinePaymentService := services.NewOnlinePaymentService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		onlineTxRepo, systemSettingRepo, admissionRepo, paymentService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)
	apiLogging := middleware.NewAPILoggingMiddleware(apiLogRepo)
	defer apiLogging.Close()

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	masterDataHandler := handlers.NewMasterDataHandler(masterDataService)
	admissionHandler := handlers.NewAdmissionHandler(admissionService, paymentService, agentPaymentService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	agentPaymentHandler := handlers.NewAgentPaymentHandler(agentPaymentService)
	voucherHandler := handlers.NewVoucherHandler(voucherService)
	daybookHandler := handlers.NewDaybookHandler(daybookService)
	cashbookHandler := handlers.NewCashbookHandler(cashbookService)
	onlinePaymentHandler := handlers.NewOnlinePaymentHandler(onlinePaymentService)
	attachmentHandler := handlers.NewAttachmentHandler(paymentRepo, store)
	systemSettingHandler := handlers.NewSystemSettingHandler(systemSettingRepo)
	auditHandler := handlers.NewAuditHandler(auditLogRepo)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		masterDataHandler,
		admissionHandler,
		paymentHandler,
		agentPaymentHandler,
		voucherHandler,
		daybookHandler,
		cashbookHandler,
		onlinePaymentHandler,
		attachmentHandler,
		systemSettingHandler,
		auditHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			corsMiddleware(
				apiLogging.Handler(router))))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
