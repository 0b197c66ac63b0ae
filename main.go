package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confhub/bookings"
	"confhub/db"
	"confhub/invitations"
	"confhub/notify"
	"confhub/ratelim"
	"confhub/realtime"
	"confhub/rooms"
	"confhub/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter, hub *realtime.Hub, dispatcher *notify.Dispatcher) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	bookingHandler := bookings.NewHandler(hub, dispatcher)
	invitationHandler := invitations.NewHandler(hub)
	roomHandler := rooms.NewHandler(hub)

	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddBookingRoutes(router, rateLimiter, bookingHandler)
	routes.AddInvitationRoutes(router, rateLimiter, invitationHandler)
	routes.AddRoomRoutes(router, rateLimiter, roomHandler)
	routes.AddFacilityRoutes(router, rateLimiter)
	routes.AddResourceRoutes(router, rateLimiter)
	routes.AddReportRoutes(router, rateLimiter)
	routes.AddRealtimeRoutes(router, hub)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	if err := db.EnsureBookingIndexes(); err != nil {
		log.Printf("booking index setup: %v", err)
	}
	if err := db.EnsureInvitationIndexes(); err != nil {
		log.Printf("invitation index setup: %v", err)
	}

	rateLimiter := ratelim.NewRateLimiter()

	hub := realtime.NewHub()
	go hub.Run()

	dispatcher := notify.NewDispatcher()
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go dispatcher.StartWorker(workerCtx)
	go bookings.StartExpirySweeper(workerCtx, 5*time.Minute)

	router := setupRouter(rateLimiter, hub, dispatcher)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down realtime hub and workers...")
		stopWorkers()
		hub.Stop()
	})

	go func() {
		log.Printf("Conference Hub listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
