package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	stan "github.com/nats-io/stan.go"

	"github.com/example/shipment-tracker/internal/usecase"
)

func main() {
	clusterID := getenv("STAN_CLUSTER_ID", "wb-cluster")
	clientID := getenv("STAN_PUB_ID", "shipments-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4223")
	subject := getenv("STAN_SUBJECT", "orders")

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("read json from stdin: %v", err)
	}
	order, err := usecase.DecodeOrder(raw)
	if err != nil {
		log.Fatalf("decode order: %v", err)
	}
	if err := order.Validate(); err != nil {
		log.Fatalf("validate order: %v", err)
	}
	b, err := json.Marshal(order)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}

	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
	if err != nil {
		log.Fatalf("stan connect: %v", err)
	}
	defer sc.Close()

	if err := sc.Publish(subject, b); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published order for %s (%d items) to %s", order.Buyer, len(order.Items), subject)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
