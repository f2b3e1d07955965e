package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abbacchio/abbacchio-go/logging"
	"github.com/abbacchio/abbacchio-go/logging/batch"
	"github.com/abbacchio/abbacchio-go/logging/httpsender"
	"github.com/abbacchio/abbacchio-go/tailer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <logfile> [logfile...]", os.Args[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := getConfig()

	sender := httpsender.New(config.Transport)
	transport := batch.NewTransport(sender, config.Transport)
	transport.Start()

	shipper := tailer.NewShipper(ctx, transport, tailer.Config{
		Name:          config.SourceName,
		ParseJSON:     config.ParseJSON,
		ReadFromStart: config.ReadFromStart,
	})

	for _, path := range os.Args[1:] {
		if err := shipper.Follow(path); err != nil {
			log.Fatalf("Failed to follow %s: %v", path, err)
		}
		log.Printf("Following %s", path)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shipper.Stop()
	transport.Shutdown(config.ShutdownTimeout)

	stats := transport.Stats()
	log.Printf("Shipped %d entries in %d batches (%d failures, %d dropped)",
		stats.EntriesSent, stats.BatchesSent, stats.SendFailures, stats.Dropped)
}

type AppConfig struct {
	Transport       logging.Config
	SourceName      string
	ParseJSON       bool
	ReadFromStart   bool
	ShutdownTimeout time.Duration
}

func getConfig() AppConfig {
	return AppConfig{
		Transport: logging.Config{
			URL:           getEnv("ABBACCHIO_URL", logging.DefaultURL),
			Channel:       getEnv("ABBACCHIO_CHANNEL", logging.DefaultChannel),
			BatchSize:     getEnvAsInt("BATCH_SIZE", logging.DefaultBatchSize),
			FlushInterval: getEnvAsDuration("FLUSH_INTERVAL", logging.DefaultFlushInterval),
			Timeout:       getEnvAsDuration("TIMEOUT", logging.DefaultTimeout),
		},
		SourceName:      getEnv("SOURCE_NAME", ""),
		ParseJSON:       getEnvAsBool("PARSE_JSON", true),
		ReadFromStart:   getEnvAsBool("READ_FROM_START", false),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if result, err := time.ParseDuration(value); err == nil {
			return result
		}
	}
	return defaultValue
}
