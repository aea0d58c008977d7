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
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"bamtech/internal/config"
	"bamtech/internal/ratelimit"
)

// Version is set at build time with -ldflags
var Version = "dev"

const (
	appName        = "bamtech"
	appDescription = "BAMTech Center landing site"
)

func printHelp() {
	fmt.Printf(`
%s v%s - %s

USAGE
    %s [options]

OPTIONS
    -h, --help      Show this help
    -v, --version   Show the version
    -c, --config    Path to the .env file (default: .env)

ENVIRONMENT
    BAMTECH_HOST                 Listen address (default: 127.0.0.1)
    BAMTECH_PORT                 Port (default: 5000)
    BAMTECH_DATABASE             SQLite path or postgres:// DSN (default: inquiries.db)
    BAMTECH_PERSIST_LANGUAGE     Remember the chosen language in a cookie (default: false)
    BAMTECH_NEGOTIATE_LANGUAGE   Use Accept-Language for first visits (default: false)
    BAMTECH_DELIVERY             none | relay | resend (default: none)
    BAMTECH_RESEND_API_KEY       Resend API key for resend delivery
    BAMTECH_REDIS_ADDRESS        Redis address for a shared rate limit
    BAMTECH_TRUSTED_PROXIES      Proxies (IPs or CIDRs) allowed to set X-Forwarded-For
    BAMTECH_ADMIN_PASSWORD       Enables /admin/inquiries (bcrypt, pbkdf2 or plain)

SITE
    config/site.json next to the .env file selects the variant (relay or
    direct), contact details and the form-relay address.

EXAMPLES
    # Run with defaults
    %s

    # Run with a custom config file
    %s -c /etc/bamtech/.env

    # Run on another port
    BAMTECH_PORT=8080 %s

`, appName, Version, appDescription, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func printVersion() {
	fmt.Printf("%s v%s\n", appName, Version)
}

func main() {
	var (
		showHelp    bool
		showVersion bool
		configPath  string
	)

	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.StringVar(&configPath, "config", "", "Path to the .env file")
	flag.StringVar(&configPath, "c", "", "Path to the .env file")

	flag.Usage = printHelp
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		printVersion()
		os.Exit(0)
	}

	root := "."
	envFile := ".env"
	if configPath != "" {
		root = filepath.Dir(configPath)
		envFile = configPath
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		log.Fatalf("config error: %v", err)
	}
	settings, err := config.Load(root)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	site, err := config.LoadSiteConfig(settings.Root)
	if err != nil {
		log.Fatalf("site config error: %v", err)
	}
	if settings.Delivery == config.DeliveryRelay && site.Relay.Action == "" {
		log.Fatalf("site config error: relay delivery needs relay.action")
	}
	if err := validateTexts(texts, referencedKeys()); err != nil {
		log.Fatalf("content error: %v", err)
	}

	db, err := openDB(settings)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory(settings.RateLimit, settings.RateLimitWindow)
	if settings.RedisAddress != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddress,
			Password: settings.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("connect to redis: %v", err)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedis(redisClient, settings.RateLimit, settings.RateLimitWindow)
	}

	proxies, err := ratelimit.ParseTrustedProxies(settings.TrustedProxies)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app := NewApp(settings, site, db, limiter, newDeliverer(settings, site), NewMetrics())
	app.Proxies = proxies

	srv := &http.Server{
		Addr:         settings.Addr(),
		Handler:      newMux(app),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("%s v%s listening on %s (%s, %s variant, delivery %s)",
			appName, Version, srv.Addr, settings.Environment, site.Variant, app.Deliverer.Method())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func newMux(app *App) http.Handler {
	mux := http.NewServeMux()

	api := cors.New(cors.Options{
		AllowedOrigins: app.Settings.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
	})

	mux.HandleFunc("GET /{$}", app.handleHome)
	mux.HandleFunc("GET /thanks", app.handleThanks)
	mux.HandleFunc("GET /lang/{lang}", app.handleSetLanguage)
	mux.HandleFunc("POST /contact", app.handleContact)
	mux.Handle("GET /api/content", api.Handler(http.HandlerFunc(app.handleContent)))
	mux.HandleFunc("GET /admin/inquiries", app.requireAdmin(app.handleAdminInquiries))
	mux.Handle("GET /metrics", app.Metrics.Handler())
	mux.HandleFunc("GET /healthz", handleHealth)

	return mux
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
