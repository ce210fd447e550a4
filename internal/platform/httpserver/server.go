package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	campaignservice "peervote/contexts/voting/campaign-service"
	candidateregistry "peervote/contexts/voting/candidate-registry"
	resultresolver "peervote/contexts/voting/result-resolver"
	votingledger "peervote/contexts/voting/voting-ledger"
	attendancetracker "peervote/contexts/workforce/attendance-tracker"
	"peervote/internal/platform/obs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	attendance attendancetracker.Module
	campaigns  campaignservice.Module
	candidates candidateregistry.Module
	ledger     votingledger.Module
	resolver   resultresolver.Module
	voteLimit  *clientLimiter
}

type Options struct {
	Addr              string
	VoteRatePerMinute int
	VoteRateBurst     int
	Logger            *slog.Logger
}

func New(
	attendance attendancetracker.Module,
	campaigns campaignservice.Module,
	candidates candidateregistry.Module,
	ledger votingledger.Module,
	resolver resultresolver.Module,
	opts Options,
) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		attendance: attendance,
		campaigns:  campaigns,
		candidates: candidates,
		ledger:     ledger,
		resolver:   resolver,
		voteLimit:  newClientLimiter(opts.VoteRatePerMinute, opts.VoteRateBurst),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, obs.Instrument(s.mux))
}

func (s *Server) registerRoutes() {
	s.mux.Handle("GET /metrics", obs.Handler())
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /attendance/late-events", s.handleRecordLateEvent)
	s.mux.HandleFunc("GET /attendance/{employee_id}/statistics", s.handleGetStatistics)
	s.mux.HandleFunc("POST /attendance/{employee_id}/reset", s.handleResetPeriod)

	s.mux.HandleFunc("POST /campaigns", s.handleOpenCampaign)
	s.mux.HandleFunc("GET /campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/close", s.handleCloseCampaign)
	s.mux.HandleFunc("POST /campaigns/{campaign_id}/cancel", s.handleCancelCampaign)

	s.mux.HandleFunc("POST /campaigns/{campaign_id}/candidates", s.handleRegisterCandidate)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /candidates/{candidate_id}/approve", s.handleReviewCandidate)
	s.mux.HandleFunc("POST /candidates/{candidate_id}/reject", s.handleReviewCandidate)
	s.mux.HandleFunc("POST /candidates/{candidate_id}/withdraw", s.handleReviewCandidate)

	s.mux.HandleFunc("POST /campaigns/{campaign_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}/votes/summary", s.handleVoteSummary)

	s.mux.HandleFunc("POST /campaigns/{campaign_id}/resolve", s.handleResolveCampaign)
	s.mux.HandleFunc("GET /campaigns/{campaign_id}/outcome", s.handleGetOutcome)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveVoterIdentity reads the externally-authenticated employee identity.
// Authentication itself is a collaborator concern; the server only requires
// the header to be present.
func resolveVoterIdentity(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Employee-Id"))
}

// clientLimiter holds one token bucket per client key.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiter(perMinute int, burst int) *clientLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 10
	}
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (c *clientLimiter) allow(key string) bool {
	c.mu.Lock()
	limiter, ok := c.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[key] = limiter
	}
	c.mu.Unlock()
	return limiter.Allow()
}
