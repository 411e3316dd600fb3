// Package config provides runtime configuration for the three services.
// Everything is read from the environment once at startup; the resulting
// structs are treated as immutable afterwards.
package config

import (
	"os"
	"strconv"
	"time"
)

// JWT holds the symmetric signing settings shared by both services. Both
// sides must load identical values or tokens issued by one service will not
// verify on the other.
type JWT struct {
	Secret   string
	Issuer   string
	Audience string
}

// Queue identifies the stock change queue on the message broker.
type Queue struct {
	// Driver selects the channel adapter: "stan" (NATS Streaming) or
	// "memory" (in-process, demo/tests only).
	Driver    string
	URL       string
	ClusterID string
	ClientID  string
	Subject   string
}

type Gateway struct {
	Addr             string
	InventoryBaseURL string
	SalesBaseURL     string
	Env              string
	ShutdownTimeout  time.Duration
}

type Inventory struct {
	Addr            string
	DatabaseURL     string
	SeedDemoData    bool
	Env             string
	ShutdownTimeout time.Duration
	JWT             JWT
	Queue           Queue
}

type Sales struct {
	Addr             string
	DatabaseURL      string
	InventoryBaseURL string
	Env              string
	ShutdownTimeout  time.Duration
	JWT              JWT
	Queue            Queue
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

func loadJWT() JWT {
	return JWT{
		Secret:   getenv("JWT_SECRET", "super_secret_key_change_me"),
		Issuer:   getenv("JWT_ISSUER", "EcomDemo"),
		Audience: getenv("JWT_AUDIENCE", "EcomClients"),
	}
}

func loadQueue(defaultClientID string) Queue {
	return Queue{
		Driver:    getenv("QUEUE_DRIVER", "stan"),
		URL:       getenv("NATS_URL", "nats://localhost:4222"),
		ClusterID: getenv("STAN_CLUSTER_ID", "fulfillment"),
		ClientID:  getenv("STAN_CLIENT_ID", defaultClientID),
		Subject:   getenv("QUEUE_SUBJECT", "order.confirmed"),
	}
}

// LoadGateway collects gateway configuration from the environment.
func LoadGateway() Gateway {
	return Gateway{
		Addr:             getenv("GATEWAY_ADDR", ":8080"),
		InventoryBaseURL: getenv("INVENTORY_BASE_URL", "http://localhost:8081"),
		SalesBaseURL:     getenv("SALES_BASE_URL", "http://localhost:8082"),
		Env:              getenv("ENV", "dev"),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 10),
	}
}

// LoadInventory collects inventory service configuration from the environment.
func LoadInventory() Inventory {
	return Inventory{
		Addr:            getenv("INVENTORY_ADDR", ":8081"),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		SeedDemoData:    boolenv("SEED_DEMO_DATA", true),
		Env:             getenv("ENV", "dev"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),
		JWT:             loadJWT(),
		Queue:           loadQueue("inventory-service"),
	}
}

// LoadSales collects sales service configuration from the environment.
func LoadSales() Sales {
	return Sales{
		Addr:             getenv("SALES_ADDR", ":8082"),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		InventoryBaseURL: getenv("INVENTORY_BASE_URL", "http://localhost:8081"),
		Env:              getenv("ENV", "dev"),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 10),
		JWT:              loadJWT(),
		Queue:            loadQueue("sales-service"),
	}
}
