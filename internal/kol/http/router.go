package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/httpx"
	"github.com/openkol/kolboard/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	adminSecret  []byte
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	InviteService     *service.InviteService
	OnboardingService *service.OnboardingService
	ProfileService    *service.ProfileService
	CampaignService   *service.CampaignService
	StatsService      *service.StatsService
}

func NewRouter(
	adminSecret []byte,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		adminSecret:  adminSecret,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerOnboarding()
	r.registerKols()
	r.registerCampaigns()
	r.registerStats()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	// Admin endpoints - moderate rate limit by user
	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.adminSecret),
		httpx.RequireAnyScope("invites:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.adminSecret),
		httpx.RequireAnyScope("invites:read"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.adminSecret),
		httpx.RequireAnyScope("invites:read"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedRevoke := httpx.Chain(http.HandlerFunc(h.HandleRevoke),
		httpx.AuthnMiddleware(r.adminSecret),
		httpx.RequireAnyScope("invites:write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/invites", securedCreate)
	r.Mux.Handle("GET /v1/invites", securedList)
	r.Mux.Handle("GET /v1/invites/{id}", securedGet)
	r.Mux.Handle("POST /v1/invites/{id}/revoke", securedRevoke)

	// GET /v1/invites/verify/{token} - strict rate limit by IP (public token probe)
	r.Mux.Handle("GET /v1/invites/verify/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOnboarding() {
	h := &OnboardingHandler{OnboardingService: r.OnboardingService}

	// Public invitee endpoints - strict rate limit by IP
	r.Mux.Handle("GET /v1/instagram/auth-url",
		httpx.Chain(http.HandlerFunc(h.HandleAuthURL),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/consent",
		httpx.Chain(http.HandlerFunc(h.HandleConsent),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/link",
		httpx.Chain(http.HandlerFunc(h.HandleLink),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/skip",
		httpx.Chain(http.HandlerFunc(h.HandleSkip),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerKols() {
	h := &KolsHandler{ProfileService: r.ProfileService}

	secured := func(fn http.HandlerFunc, scope string) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.adminSecret),
			httpx.RequireAnyScope(scope),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/kols", secured(h.HandleCreate, "kols:write"))
	r.Mux.Handle("PUT /v1/kols/{id}", secured(h.HandleUpdate, "kols:write"))
	r.Mux.Handle("DELETE /v1/kols/{id}", secured(h.HandleDelete, "kols:write"))

	// The roster reads are a public directory; only writes need admin auth.
	r.Mux.Handle("GET /v1/kols",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/kols/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerCampaigns() {
	h := &CampaignsHandler{CampaignService: r.CampaignService}

	secured := func(fn http.HandlerFunc, scope string) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.adminSecret),
			httpx.RequireAnyScope(scope),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/campaigns", secured(h.HandleCreate, "campaigns:write"))
	r.Mux.Handle("GET /v1/campaigns", secured(h.HandleList, "campaigns:read"))
	r.Mux.Handle("GET /v1/campaigns/{id}", secured(h.HandleGet, "campaigns:read"))
	r.Mux.Handle("PUT /v1/campaigns/{id}", secured(h.HandleUpdate, "campaigns:write"))
	r.Mux.Handle("DELETE /v1/campaigns/{id}", secured(h.HandleDelete, "campaigns:write"))
}

func (r *Router) registerStats() {
	h := &StatsHandler{StatsService: r.StatsService}

	r.Mux.Handle("GET /v1/stats",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.adminSecret),
			httpx.RequireAnyScope("stats:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
