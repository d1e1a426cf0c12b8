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
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/five82/marquee/internal/stubapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("MARQUEE_STUB_ADDR", "127.0.0.1:8080"), "listen address")
	secret := flag.String("secret", envOr("MARQUEE_STUB_SECRET", "marquee-dev-secret"), "token signing secret")
	email := flag.String("email", envOr("MARQUEE_STUB_EMAIL", "admin@marquee.local"), "operator email")
	password := flag.String("password", envOr("MARQUEE_STUB_PASSWORD", "marquee"), "operator password")
	fixtures := flag.Bool("fixtures", true, "seed sample categories and series")
	omitUser := flag.Bool("omit-user", false, "leave the user out of login responses")
	flag.Parse()

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []stubapi.Option{
		stubapi.WithOperator(*email, *password, "Admin"),
		stubapi.WithAccessLog(os.Stderr),
	}
	if *fixtures {
		opts = append(opts, stubapi.WithFixtures())
	}
	if *omitUser {
		opts = append(opts, stubapi.WithoutLoginUser())
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           stubapi.New(*secret, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("marquee-stub listening on http://%s (operator %s)", *addr, *email)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "marquee-stub: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "marquee-stub: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
