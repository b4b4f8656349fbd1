package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"desmatamento/internal/cache"
	"desmatamento/internal/charts"
	"desmatamento/internal/dashboard"
	"desmatamento/internal/log"
	"desmatamento/internal/storage"
	appweb "desmatamento/web"
)

// Options wires the server to the dashboard pipeline.
type Options struct {
	Addr      string
	Dashboard *dashboard.Service
	Sessions  *cache.SessionStore
	Charts    *charts.Renderer
	Logger    *log.Logger

	// Ready is an optional readiness probe, e.g. a database ping.
	Ready func(ctx context.Context) error

	// LatestImport reports the stored snapshot on /readyz when set.
	LatestImport func(ctx context.Context) (storage.Import, error)

	RequestsPerMinute int
	SecureCookies     bool
}

type Server struct {
	http.Server
	templates     *template.Template
	dashboard     *dashboard.Service
	sessions      *cache.SessionStore
	charts        *charts.Renderer
	logger        *log.Logger
	ready         func(ctx context.Context) error
	latestImport  func(ctx context.Context) (storage.Import, error)
	rateLimiter   *rateLimiter
	metrics       *securityMetrics
	secureCookies bool
	shutdownOnce  sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	sessions := opts.Sessions
	if sessions == nil {
		sessions = cache.NewSessionStore(1000, 30*time.Minute, opts.Dashboard.NewSelection)
	}
	renderer := opts.Charts
	if renderer == nil {
		renderer = charts.NewRenderer(256, 30*time.Minute, logger)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           log.Middleware(logger)(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		dashboard:     opts.Dashboard,
		sessions:      sessions,
		charts:        renderer,
		logger:        logger,
		ready:         opts.Ready,
		latestImport:  opts.LatestImport,
		rateLimiter:   newRateLimiter(opts.RequestsPerMinute),
		metrics:       &securityMetrics{},
		secureCookies: opts.SecureCookies,
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// UI partials
	mux.HandleFunc("/ui/controls", s.withSecurityHeaders(s.handleControls))
	mux.HandleFunc("/ui/insights", s.withSecurityHeaders(s.handleInsights))
	mux.HandleFunc("/ui/charts", s.withSecurityHeaders(s.handleChartsPartial))
	mux.HandleFunc("/ui/table", s.withSecurityHeaders(s.handleTable))

	// Selection mutators
	mux.HandleFunc("/selection/toggle", s.withSecurityHeaders(s.handleToggle))
	mux.HandleFunc("/selection/years", s.withSecurityHeaders(s.handleYears))

	mux.HandleFunc("/api/dashboard", s.withSecurityHeaders(s.handleAPIDashboard))
	mux.HandleFunc("/charts/", s.withSecurityHeaders(s.handleChart))
	mux.HandleFunc("/export.xlsx", s.withSecurityHeaders(s.handleExport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := log.NewContext(r.Context(), logger)
		r = r.WithContext(ctx)

		log.HTTPStart(ctx, s.logger, r, requestID, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		}

		// Only mutations are rate limited; the page fans out into several GETs.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Limite de requisições excedido. Tente novamente em instantes.", http.StatusTooManyRequests)
			log.HTTPEnd(ctx, s.logger, r, requestID, http.StatusTooManyRequests, time.Since(start).Milliseconds())
			return
		}

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		log.HTTPEnd(ctx, s.logger, r, requestID, rw.statusCode, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ds := s.dashboard.Dataset()
	body := map[string]interface{}{
		"status": "ready",
		"dataset": map[string]interface{}{
			"source":             ds.Source,
			"fallback":           ds.Fallback,
			"fallback_reason":    ds.FallbackReason,
			"deforestation_rows": len(ds.Deforestation),
			"economic_rows":      len(ds.Economic),
			"loaded_at":          ds.LoadedAt,
		},
		"sessions": s.sessions.Size(),
		"security": s.metrics.snapshot(),
	}

	status := http.StatusOK
	if s.templates == nil {
		status = http.StatusServiceUnavailable
		body["status"] = "templates not loaded"
	} else if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "not ready"
			body["error"] = err.Error()
		}
	}
	if s.latestImport != nil && status == http.StatusOK {
		imp, err := s.latestImport(r.Context())
		switch {
		case errors.Is(err, storage.ErrNoSnapshot):
			body["snapshot"] = nil
		case err != nil:
			body["snapshot_error"] = err.Error()
		default:
			body["snapshot"] = imp
		}
	}
	writeJSON(w, status, body)
}
