/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the advisory portal server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the strategy matcher (built-in table or -patterns file)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: advisor.db)
             Use ":memory:" for an in-memory database
  -patterns  Optional JSON strategy-table file overriding the built-in
             sixteen patterns; a bad table fails startup, not match time

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/advisor.db"

  # Run with a custom strategy table
  ./server -patterns="./config/strategies.json"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/patterns.go: Strategy table parsing
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/advisory-engine/api"
	"github.com/warp/advisory-engine/factory"
	"github.com/warp/advisory-engine/store/sqlite"
	"github.com/warp/advisory-engine/strategy"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "advisor.db", "SQLite database path")
	patternsPath := flag.String("patterns", "", "JSON strategy-table file (default: built-in table)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build the strategy matcher
	matcher := strategy.NewDefaultMatcher()
	if *patternsPath != "" {
		data, err := os.ReadFile(*patternsPath)
		if err != nil {
			log.Fatalf("Failed to read pattern table: %v", err)
		}
		matcher, err = factory.ParsePatterns(data)
		if err != nil {
			log.Fatalf("Failed to parse pattern table: %v", err)
		}
		log.Printf("Loaded strategy table from %s", *patternsPath)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, matcher)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
