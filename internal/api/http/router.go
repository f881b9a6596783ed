package http

import (
	"net/http"

	"perpusum-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires all API routes. Registration, search and the renewal
// request flow are public; everything else sits behind the admin token.
func NewRouter(
	authHandler *AuthHandler,
	memberHandler *MemberHandler,
	renewalHandler *RenewalHandler,
	tokens security.TokenManager,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		respondSuccess(w, http.StatusOK, "Server is running", nil)
	}).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify", authHandler.Verify).Methods(http.MethodPost)

	// Public member routes
	r.HandleFunc("/api/members/register", memberHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/members/search", memberHandler.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/members/{id:[0-9]+}/renewal-eligibility", renewalHandler.Eligibility).Methods(http.MethodGet)
	r.HandleFunc("/api/members/{id:[0-9]+}/renewal-request", renewalHandler.Request).Methods(http.MethodPost)

	// Admin routes
	admin := r.PathPrefix("/api/members").Subrouter()
	admin.Use(AuthMiddleware(tokens))
	admin.HandleFunc("", memberHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/stats", memberHandler.DashboardStats).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/profession-stats", memberHandler.ProfessionStats).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/registration-trend", memberHandler.RegistrationTrend).Methods(http.MethodGet)
	admin.HandleFunc("/renewals/list", renewalHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/renewals/{id:[0-9]+}/approve", renewalHandler.Approve).Methods(http.MethodPut)
	admin.HandleFunc("/renewals/{id:[0-9]+}/reject", renewalHandler.Reject).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", memberHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/{id:[0-9]+}/approve", memberHandler.Approve).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/reject", memberHandler.Reject).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}/member-number", memberHandler.UpdateMemberNumber).Methods(http.MethodPut)

	return r
}
