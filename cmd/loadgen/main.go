package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

func cryptoRandFloat64() float64 {
	max := big.NewInt(1 << 53)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}

type PickShortageEvent struct {
	OrderID     string  `json:"orderId"`
	LineID      int     `json:"lineId"`
	ProductCode string  `json:"productCode"`
	ExpectedQty float64 `json:"expectedQty"`
	PickedQty   float64 `json:"pickedQty"`
	PickerID    string  `json:"pickerId,omitempty"`
	Comment     string  `json:"comment,omitempty"`
}

type orderLine struct {
	OrderID     string
	LineID      int
	ProductCode string
	// higher weight = more frequent
	Weight int
}

var (
	// Lines of the seeded demo orders, weighted so the milk line dominates
	// the event stream the way fast movers dominate real shortage traffic.
	lines = []orderLine{
		{"ORD-1001", 1, "MILK-1L", 30},
		{"ORD-1001", 2, "OAT-1L", 20},
		{"ORD-1001", 3, "BUTTER-500", 15},
		{"ORD-1002", 1, "EGGS-M10", 20},
		{"ORD-1002", 2, "CHEESE-EDAM", 15},
	}

	comments = []string{
		"",
		"",
		"Last crate was damaged.",
		"Shelf empty, backroom too.",
		"Best-before date too close, left on shelf.",
	}
)

func pickWeightedLine() orderLine {
	total := 0
	for _, l := range lines {
		total += l.Weight
	}
	roll := cryptoRandIntn(total)
	for _, l := range lines {
		roll -= l.Weight
		if roll < 0 {
			return l
		}
	}
	return lines[0]
}

func buildEvent(pickerID string) PickShortageEvent {
	line := pickWeightedLine()
	expected := float64(1 + cryptoRandIntn(12))

	// Roughly a third of events are full picks, the rest are short.
	picked := expected
	if cryptoRandFloat64() > 0.33 {
		picked = float64(cryptoRandIntn(int(expected)))
	}

	return PickShortageEvent{
		OrderID:     line.OrderID,
		LineID:      line.LineID,
		ProductCode: line.ProductCode,
		ExpectedQty: expected,
		PickedQty:   picked,
		PickerID:    pickerID,
		Comment:     comments[cryptoRandIntn(len(comments))],
	}
}

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "base URL of the order fulfilment API")
		total       = flag.Int("n", 100, "total number of shortage events to send")
		concurrency = flag.Int("c", 4, "number of concurrent senders")
		interval    = flag.Duration("interval", 200*time.Millisecond, "pause between events per sender")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	endpoint := *baseURL + "/api/orders/events/pick-shortage"
	client := &http.Client{Timeout: 15 * time.Second}

	var sent, failed atomic.Int64
	perSender := *total / *concurrency
	if perSender == 0 {
		perSender = 1
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		pickerID := "PICKER-" + uuid.NewString()[:8]
		go func(pickerID string) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				if err := postEvent(context.Background(), client, endpoint, buildEvent(pickerID)); err != nil {
					failed.Add(1)
					logger.Error("event failed", "error", err)
				} else {
					sent.Add(1)
				}
				time.Sleep(*interval)
			}
		}(pickerID)
	}
	wg.Wait()

	logger.Info("load generation finished",
		"sent", sent.Load(),
		"failed", failed.Load(),
		"elapsed", time.Since(start).String(),
	)
}

func postEvent(ctx context.Context, client *http.Client, endpoint string, event PickShortageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for order %s line %d", resp.StatusCode, event.OrderID, event.LineID)
	}
	return nil
}
