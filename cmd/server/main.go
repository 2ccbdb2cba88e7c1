package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"solar_simulator/internal/api"
	"solar_simulator/internal/config"
	"solar_simulator/internal/ingest"
	"solar_simulator/internal/publish"
	"solar_simulator/internal/session"
	"solar_simulator/internal/ws"
)

func main() {
	config.LoadEnv()
	settings := config.SettingsFromEnv()

	flag.StringVar(&settings.Addr, "addr", settings.Addr, "listen address")
	flag.StringVar(&settings.ProfilePath, "profile", settings.ProfilePath, "profile file (.csv or SIM_DATA .js/.json)")
	flag.StringVar(&settings.ParamsPath, "params", settings.ParamsPath, "parameter file (.json or .yaml)")
	flag.StringVar(&settings.StaticDir, "static-dir", settings.StaticDir, "directory containing frontend build")
	partial := flag.Bool("partial-year", false, "accept profiles that do not cover one full calendar year")
	flag.Parse()

	if settings.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	sess, err := session.Open(settings.ProfilePath, settings.ParamsPath, ingest.Options{AllowPartialYear: *partial})
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	sess.AddListener(ws.NewBridge(hub))

	if settings.MQTTBroker != "" {
		client, err := publish.Connect(publish.Options{
			Broker:   settings.MQTTBroker,
			Username: settings.MQTTUsername,
			Password: settings.MQTTPassword,
		})
		if err != nil {
			log.Printf("MQTT disabled: %v", err)
		} else {
			publisher := publish.NewPublisher(client, settings.MQTTTopicPrefix)
			sess.AddListener(publisher)
			go publisher.Run(ctx)
			defer client.Disconnect(250)
		}
	}

	if _, err := sess.Recompute(); err != nil {
		log.Fatalf("Initial run failed: %v", err)
	}

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           newHandler(settings, sess, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		hub.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", settings.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newHandler wires the REST API, the websocket endpoint and CORS.
func newHandler(settings config.Settings, sess *session.Session, hub *ws.Hub) http.Handler {
	router := api.NewRouter(sess, api.RouterOptions{
		WebSocket: ws.NewHandler(hub, sess),
		StaticDir: settings.StaticDir,
	})
	return cors.New(corsOptions(settings.CORSOrigins)).Handler(router)
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}
}
