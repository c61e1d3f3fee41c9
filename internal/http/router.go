package http

import (
	"net/http"

	"admission-backend/internal/handlers"
	"admission-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	masterDataHandler *handlers.MasterDataHandler,
	admissionHandler *handlers.AdmissionHandler,
	paymentHandler *handlers.PaymentHandler,
	agentPaymentHandler *handlers.AgentPaymentHandler,
	voucherHandler *handlers.VoucherHandler,
	daybookHandler *handlers.DaybookHandler,
	cashbookHandler *handlers.CashbookHandler,
	onlinePaymentHandler *handlers.OnlinePaymentHandler,
	attachmentHandler *handlers.AttachmentHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	auditHandler *handlers.AuditHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Gateway webhook authenticates by signature, not JWT
	r.HandleFunc("/api/online-payments/webhook", onlinePaymentHandler.Webhook).Methods("POST")

	// Protected API routes - current user
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.List))).Methods("GET")
	usersAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.Create))).Methods("POST")
	usersAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.Get))).Methods("GET")
	usersAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.Update))).Methods("PUT")
	usersAPI.Handle("/{id}", authMiddleware.RequireSuperAdmin(http.HandlerFunc(userHandler.Delete))).Methods("DELETE")

	// Protected API routes - Branches (writes are admin only)
	branchesAPI := r.PathPrefix("/api/branches").Subrouter()
	branchesAPI.Use(authMiddleware.Authenticate)
	branchesAPI.HandleFunc("", masterDataHandler.ListBranches).Methods("GET")
	branchesAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.CreateBranch))).Methods("POST")
	branchesAPI.HandleFunc("/{id}", masterDataHandler.GetBranch).Methods("GET")
	branchesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.UpdateBranch))).Methods("PUT")
	branchesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.DeleteBranch))).Methods("DELETE")

	// Protected API routes - Colleges
	collegesAPI := r.PathPrefix("/api/colleges").Subrouter()
	collegesAPI.Use(authMiddleware.Authenticate)
	collegesAPI.HandleFunc("", masterDataHandler.ListColleges).Methods("GET")
	collegesAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.CreateCollege))).Methods("POST")
	collegesAPI.HandleFunc("/{id}", masterDataHandler.GetCollege).Methods("GET")
	collegesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.UpdateCollege))).Methods("PUT")
	collegesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.DeleteCollege))).Methods("DELETE")

	// Protected API routes - Courses
	coursesAPI := r.PathPrefix("/api/courses").Subrouter()
	coursesAPI.Use(authMiddleware.Authenticate)
	coursesAPI.HandleFunc("", masterDataHandler.ListCourses).Methods("GET")
	coursesAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.CreateCourse))).Methods("POST")
	coursesAPI.HandleFunc("/{id}", masterDataHandler.GetCourse).Methods("GET")
	coursesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.UpdateCourse))).Methods("PUT")
	coursesAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.DeleteCourse))).Methods("DELETE")

	// Protected API routes - Agents
	agentsAPI := r.PathPrefix("/api/agents").Subrouter()
	agentsAPI.Use(authMiddleware.Authenticate)
	agentsAPI.HandleFunc("", masterDataHandler.ListAgents).Methods("GET")
	agentsAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.CreateAgent))).Methods("POST")
	agentsAPI.HandleFunc("/{id}", masterDataHandler.GetAgent).Methods("GET")
	agentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.UpdateAgent))).Methods("PUT")
	agentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(masterDataHandler.DeleteAgent))).Methods("DELETE")

	// Protected API routes - Admissions
	admissionsAPI := r.PathPrefix("/api/admissions").Subrouter()
	admissionsAPI.Use(authMiddleware.Authenticate)
	admissionsAPI.HandleFunc("", admissionHandler.List).Methods("GET")
	admissionsAPI.HandleFunc("", admissionHandler.Create).Methods("POST")
	admissionsAPI.HandleFunc("/{id}", admissionHandler.Get).Methods("GET")
	admissionsAPI.HandleFunc("/{id}/details", admissionHandler.Details).Methods("GET")
	admissionsAPI.HandleFunc("/{id}", admissionHandler.Update).Methods("PUT")
	admissionsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(admissionHandler.Delete))).Methods("DELETE")
	admissionsAPI.Handle("/{id}/recompute", authMiddleware.RequireAdmin(http.HandlerFunc(admissionHandler.Recompute))).Methods("POST")
	admissionsAPI.HandleFunc("/{id}/online-payments", onlinePaymentHandler.ListByAdmission).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", paymentHandler.List).Methods("GET")
	paymentsAPI.HandleFunc("", paymentHandler.Create).Methods("POST")
	paymentsAPI.HandleFunc("/check-ref", paymentHandler.CheckTransactionRef).Methods("GET")
	paymentsAPI.HandleFunc("/{id}", paymentHandler.Get).Methods("GET")
	paymentsAPI.HandleFunc("/{id}/attachment", attachmentHandler.Upload).Methods("POST")
	paymentsAPI.HandleFunc("/{id}/attachment", attachmentHandler.Download).Methods("GET")
	paymentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(paymentHandler.Update))).Methods("PUT")
	paymentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(paymentHandler.Delete))).Methods("DELETE")

	// Protected API routes - Agent Payments
	agentPaymentsAPI := r.PathPrefix("/api/agent-payments").Subrouter()
	agentPaymentsAPI.Use(authMiddleware.Authenticate)
	agentPaymentsAPI.HandleFunc("", agentPaymentHandler.List).Methods("GET")
	agentPaymentsAPI.HandleFunc("", agentPaymentHandler.Create).Methods("POST")
	agentPaymentsAPI.HandleFunc("/{id}", agentPaymentHandler.Get).Methods("GET")
	agentPaymentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(agentPaymentHandler.Update))).Methods("PUT")
	agentPaymentsAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(agentPaymentHandler.Delete))).Methods("DELETE")

	// Protected API routes - Vouchers
	vouchersAPI := r.PathPrefix("/api/vouchers").Subrouter()
	vouchersAPI.Use(authMiddleware.Authenticate)
	vouchersAPI.HandleFunc("", voucherHandler.List).Methods("GET")
	vouchersAPI.HandleFunc("/number/{number}", voucherHandler.GetByNumber).Methods("GET")
	vouchersAPI.HandleFunc("/{id}", voucherHandler.Get).Methods("GET")
	vouchersAPI.HandleFunc("/{id}/print", voucherHandler.RecordPrint).Methods("POST")
	vouchersAPI.HandleFunc("/{id}/pdf", voucherHandler.PDF).Methods("GET")

	// Protected API routes - Daybook
	daybookAPI := r.PathPrefix("/api/daybook").Subrouter()
	daybookAPI.Use(authMiddleware.Authenticate)
	daybookAPI.HandleFunc("", daybookHandler.List).Methods("GET")
	daybookAPI.HandleFunc("", daybookHandler.Create).Methods("POST")
	daybookAPI.HandleFunc("/summary", daybookHandler.Summary).Methods("GET")
	daybookAPI.HandleFunc("/{id}", daybookHandler.Get).Methods("GET")
	daybookAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(daybookHandler.Update))).Methods("PUT")
	daybookAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(daybookHandler.Delete))).Methods("DELETE")

	// Protected API routes - Cashbook
	cashbookAPI := r.PathPrefix("/api/cashbook").Subrouter()
	cashbookAPI.Use(authMiddleware.Authenticate)
	cashbookAPI.HandleFunc("", cashbookHandler.List).Methods("GET")
	cashbookAPI.HandleFunc("", cashbookHandler.Create).Methods("POST")
	cashbookAPI.HandleFunc("/summary", cashbookHandler.Summary).Methods("GET")
	cashbookAPI.Handle("/rebuild", authMiddleware.RequireAdmin(http.HandlerFunc(cashbookHandler.RebuildBalances))).Methods("POST")
	cashbookAPI.Handle("/clear", authMiddleware.RequireAdmin(http.HandlerFunc(cashbookHandler.ClearAll))).Methods("DELETE")
	cashbookAPI.Handle("/hard-clear", authMiddleware.RequireSuperAdmin(http.HandlerFunc(cashbookHandler.HardClearAll))).Methods("DELETE")
	cashbookAPI.HandleFunc("/{id}", cashbookHandler.Get).Methods("GET")
	cashbookAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(cashbookHandler.Update))).Methods("PUT")
	cashbookAPI.Handle("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(cashbookHandler.Delete))).Methods("DELETE")

	// Protected API routes - Online payments (checkout flow)
	onlineAPI := r.PathPrefix("/api/online-payments").Subrouter()
	onlineAPI.Use(authMiddleware.Authenticate)
	onlineAPI.HandleFunc("/status", onlinePaymentHandler.Status).Methods("GET")
	onlineAPI.HandleFunc("/order", onlinePaymentHandler.CreateOrder).Methods("POST")
	onlineAPI.HandleFunc("/verify", onlinePaymentHandler.VerifyPayment).Methods("POST")

	// Protected API routes - System Settings (admin only)
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.Handle("", authMiddleware.RequireAdmin(http.HandlerFunc(systemSettingHandler.List))).Methods("GET")
	settingsAPI.Handle("/{key}", authMiddleware.RequireAdmin(http.HandlerFunc(systemSettingHandler.Get))).Methods("GET")
	settingsAPI.Handle("/{key}", authMiddleware.RequireAdmin(http.HandlerFunc(systemSettingHandler.Update))).Methods("PUT")

	// Protected API routes - Audit history (admin only)
	auditAPI := r.PathPrefix("/api/audit").Subrouter()
	auditAPI.Use(authMiddleware.Authenticate)
	auditAPI.Handle("/{entity}/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(auditHandler.History))).Methods("GET")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
