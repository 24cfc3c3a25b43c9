package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"leadfunnel/internal/backend"
	"leadfunnel/internal/config"
	"leadfunnel/internal/funnel"
	"leadfunnel/internal/httpapi"
	"leadfunnel/internal/hub"
	"leadfunnel/internal/store"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("LEADFUNNEL_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultBackend := "http://localhost:5000"
	if v := os.Getenv("LEADFUNNEL_BACKEND_URL"); v != "" {
		defaultBackend = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	backendURL := flag.String("backend-url", defaultBackend, "Base URL of the customer records service")
	dataDir := flag.String("data-dir", "~/.leadfunnel", "Directory for the durable key/value mirror")
	adminUser := flag.String("admin-user", "admin", "Admin username")
	adminPass := flag.String("admin-pass", "solar123", "Admin password")
	configPath := flag.String("config", "", "Optional config file (json, yaml or toml); flags override it")
	flag.Parse()

	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		applyFileConfig(&fileCfg, addr, backendURL, dataDir, adminUser, adminPass)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	httpapi.SetLogger(logger)

	st, err := store.Open(*dataDir)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	broker := hub.NewBroker(st)
	h := broker.Attach()
	defer h.Close()

	be := backend.New(*backendURL, backend.WithLogger(logger))
	fn, err := funnel.New(funnel.Config{
		Backend:  be,
		Notifier: h,
		Logger:   &logger,
	})
	if err != nil {
		log.Fatalf("failed to build funnel: %v", err)
	}

	mux := httpapi.NewMux(httpapi.ServerConfig{
		Service: fn,
		Admin:   be,
		Store:   st,
		Broker:  broker,
		Creds:   httpapi.AdminCreds{Username: *adminUser, Password: *adminPass},
	})
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("leadfunnel listening on %s (backend: %s)", *addr, *backendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// applyFileConfig copies file values into flags the user did not set on the
// command line, so explicit flags always win.
func applyFileConfig(c *config.Config, addr, backendURL, dataDir, adminUser, adminPass *string) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if c.Addr != "" && !set["addr"] {
		*addr = c.Addr
	}
	if c.BackendURL != "" && !set["backend-url"] {
		*backendURL = c.BackendURL
	}
	if c.DataDir != "" && !set["data-dir"] {
		*dataDir = c.DataDir
	}
	if c.AdminUser != "" && !set["admin-user"] {
		*adminUser = c.AdminUser
	}
	if c.AdminPass != "" && !set["admin-pass"] {
		*adminPass = c.AdminPass
	}
}
