package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadfunnel/internal/hub"
	"leadfunnel/internal/store"
	"leadfunnel/pkg/types"
)

// Service defines the funnel methods required by the HTTP API layer.
type Service interface {
	StartSession() *types.SessionResponse
	Session(id string) (*types.SessionResponse, error)
	Advance(id string) (*types.SessionResponse, error)
	Retreat(id string) (*types.SessionResponse, error)
	SubmitAddress(id, location string) (*types.SessionResponse, error)
	SubmitPersonalInfo(id, firstName, lastName string) (*types.SessionResponse, error)
	SubmitContactInfo(id, phone, email string) (*types.SessionResponse, error)
	SubmitUtilityBill(ctx context.Context, id string, bill types.UtilityBill) (*types.SessionResponse, error)
	SubmitQuizAnswer(id string, question int, answer string) (*types.SessionResponse, error)
	QuizNext(ctx context.Context, id string) (*types.SessionResponse, error)
	QuizPrev(id string) (*types.SessionResponse, error)
	SubmitSavingsReport(ctx context.Context, id, delivery string) (*types.SessionResponse, error)
	SubmitSchedule(ctx context.Context, id, date, slot string) (*types.SessionResponse, error)
	SubmitReview(id string) (*types.SessionResponse, error)
	Ready() bool
}

// AdminService is the collaborator surface consumed by the admin endpoints.
type AdminService interface {
	ListCustomers(ctx context.Context) ([]types.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	DownloadBill(ctx context.Context, id string) ([]byte, string, error)
}

// AdminCreds is the hard-coded credential pair for the admin endpoints.
// It is explicitly not a security boundary.
type AdminCreds struct {
	Username string
	Password string
}

// ServerConfig wires the router's collaborators. Service is required;
// Admin, Store and Broker enable the admin and event endpoints.
type ServerConfig struct {
	Service Service
	Admin   AdminService
	Store   *store.Store
	Broker  *hub.Broker
	Creds   AdminCreds
}

func NewMux(cfg ServerConfig) http.Handler {
	svc := cfg.Service
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			resp := svc.StartSession()
			writeJSON(w, http.StatusCreated, resp)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				resp, err := svc.Session(chi.URLParam(r, "id"))
				respond(w, resp, err)
			})
			r.Post("/advance", func(w http.ResponseWriter, r *http.Request) {
				resp, err := svc.Advance(chi.URLParam(r, "id"))
				respond(w, resp, err)
			})
			r.Post("/retreat", func(w http.ResponseWriter, r *http.Request) {
				resp, err := svc.Retreat(chi.URLParam(r, "id"))
				respond(w, resp, err)
			})

			r.Post("/steps/address", func(w http.ResponseWriter, r *http.Request) {
				var req types.AddressSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				resp, err := svc.SubmitAddress(chi.URLParam(r, "id"), req.Location)
				respond(w, resp, err)
			})
			r.Post("/steps/personalinfo", func(w http.ResponseWriter, r *http.Request) {
				var req types.PersonalInfoSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				resp, err := svc.SubmitPersonalInfo(chi.URLParam(r, "id"), req.FirstName, req.LastName)
				respond(w, resp, err)
			})
			r.Post("/steps/contactinfo", func(w http.ResponseWriter, r *http.Request) {
				var req types.ContactInfoSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				resp, err := svc.SubmitContactInfo(chi.URLParam(r, "id"), req.Phone, req.Email)
				respond(w, resp, err)
			})
			r.Post("/steps/utilitybill", handleUtilityBill(svc))
			r.Post("/steps/quiz/answer", func(w http.ResponseWriter, r *http.Request) {
				var req types.QuizAnswerSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				resp, err := svc.SubmitQuizAnswer(chi.URLParam(r, "id"), req.Question, req.Answer)
				respond(w, resp, err)
			})
			r.Post("/steps/quiz/next", func(w http.ResponseWriter, r *http.Request) {
				joined, cancel := joinContexts(serverBaseCtx, r.Context())
				defer cancel()
				resp, err := svc.QuizNext(joined, chi.URLParam(r, "id"))
				respond(w, resp, err)
			})
			r.Post("/steps/quiz/prev", func(w http.ResponseWriter, r *http.Request) {
				resp, err := svc.QuizPrev(chi.URLParam(r, "id"))
				respond(w, resp, err)
			})
			r.Post("/steps/savingsreport", func(w http.ResponseWriter, r *http.Request) {
				var req types.SavingsReportSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				joined, cancel := joinContexts(serverBaseCtx, r.Context())
				defer cancel()
				resp, err := svc.SubmitSavingsReport(joined, chi.URLParam(r, "id"), req.Delivery)
				respond(w, resp, err)
			})
			r.Post("/steps/scheduling", func(w http.ResponseWriter, r *http.Request) {
				var req types.ScheduleSubmit
				if !decodeJSON(w, r, &req) {
					return
				}
				joined, cancel := joinContexts(serverBaseCtx, r.Context())
				defer cancel()
				resp, err := svc.SubmitSchedule(joined, chi.URLParam(r, "id"), req.Date, req.Time)
				respond(w, resp, err)
			})
			r.Post("/steps/review", func(w http.ResponseWriter, r *http.Request) {
				resp, err := svc.SubmitReview(chi.URLParam(r, "id"))
				respond(w, resp, err)
			})
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var req types.LoginRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			if req.Username != cfg.Creds.Username || req.Password != cfg.Creds.Password {
				writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			if cfg.Store != nil {
				if err := cfg.Store.SetAdminAuthenticated(true); err != nil {
					writeJSONError(w, http.StatusInternalServerError, err.Error())
					return
				}
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			if cfg.Store != nil {
				_ = cfg.Store.SetAdminAuthenticated(false)
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(cfg.Store))
			r.Get("/customers", func(w http.ResponseWriter, r *http.Request) {
				customers, err := cfg.Admin.ListCustomers(r.Context())
				if err != nil {
					writeFunnelError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, types.CustomersResponse{Customers: customers})
			})
			r.Delete("/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
				if err := cfg.Admin.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
					writeFunnelError(w, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
			r.Get("/customers/{id}/file", func(w http.ResponseWriter, r *http.Request) {
				b, name, err := cfg.Admin.DownloadBill(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					writeFunnelError(w, err)
					return
				}
				if name == "" {
					name = "utility-bill"
				}
				w.Header().Set("Content-Type", "application/octet-stream")
				w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
				_, _ = w.Write(b)
			})
			r.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
				if cfg.Store == nil {
					writeJSON(w, http.StatusOK, types.LeadsResponse{})
					return
				}
				leads, err := cfg.Store.Leads()
				if err != nil {
					writeJSONError(w, http.StatusInternalServerError, err.Error())
					return
				}
				writeJSON(w, http.StatusOK, types.LeadsResponse{Leads: leads})
			})
			r.Delete("/leads", func(w http.ResponseWriter, r *http.Request) {
				if cfg.Broker == nil || cfg.Store == nil {
					writeJSONError(w, http.StatusServiceUnavailable, "lead mirror not configured")
					return
				}
				h := cfg.Broker.Attach()
				defer h.Close()
				if err := h.StoreAndBroadcast(store.KeyLeads, []types.Lead{}); err != nil {
					writeJSONError(w, http.StatusInternalServerError, err.Error())
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	if cfg.Broker != nil {
		r.Get("/events", handleEvents(cfg.Broker))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleUtilityBill accepts the multipart create payload: the file plus the
// session's accumulated personal info and location, bundled by the funnel.
func handleUtilityBill(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("utilityBill")
		if err != nil {
			writeFieldError(w, http.StatusUnprocessableEntity, "utilityBill", "Utility bill is required")
			return
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("session", id).Str("file", header.Filename)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("upload start")
		}
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.SubmitUtilityBill(joined, id, types.UtilityBill{
			Name:    header.Filename,
			Size:    header.Size,
			Content: content,
		})
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("session", id).Dur("dur", time.Since(start))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Err(err).Msg("upload end")
		}
		respond(w, resp, err)
	}
}

// handleEvents bridges a hub attachment onto an SSE stream so a browser tab
// or the admin CLI can observe broadcasts live.
func handleEvents(broker *hub.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		h := broker.Attach()
		defer h.Close()

		// Best-effort delivery: a slow consumer drops messages rather than
		// stalling the broker.
		msgs := make(chan hub.Message, 16)
		l := h.OnAll(func(m hub.Message) {
			select {
			case msgs <- m:
			default:
			}
		})
		defer h.Off(l)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-serverBaseCtx.Done():
				return
			case m := <-msgs:
				b, err := json.Marshal(m)
				if err != nil {
					continue
				}
				if _, err := w.Write([]byte("event: " + m.Type + "\ndata: " + string(b) + "\n\n")); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// requireAdmin gates the admin read/write endpoints on the durable
// adminAuthenticated flag. This is a convenience gate, not a real
// authorization layer.
func requireAdmin(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if st == nil || !st.AdminAuthenticated() {
				writeJSONError(w, http.StatusUnauthorized, "admin login required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// decodeJSON enforces the JSON content type and body cap, decoding into v.
// It writes the error response itself and reports whether decoding worked.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func respond(w http.ResponseWriter, resp *types.SessionResponse, err error) {
	if err != nil {
		writeFunnelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers already sent; nothing sensible left to do
		return
	}
}
