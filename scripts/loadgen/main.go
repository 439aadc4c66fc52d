package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noah-isme/register-share-api/internal/chat"
	"github.com/noah-isme/register-share-api/internal/client"
	"github.com/noah-isme/register-share-api/internal/models"
)

// Drives concurrent chat sessions against a running registry to shake out
// contention in the per-code update path. Publishes one class, then has N
// viewers send messages while polling, and verifies nothing got lost.
func main() {
	var (
		server   string
		viewers  int
		messages int
		interval time.Duration
	)

	flag.StringVar(&server, "server", "http://localhost:8080/api/v1", "registry base URL")
	flag.IntVar(&viewers, "viewers", 10, "concurrent chat sessions")
	flag.IntVar(&messages, "messages", 20, "messages per session")
	flag.DurationVar(&interval, "interval", 50*time.Millisecond, "delay between sends")
	flag.Parse()

	registry := client.NewSyncClient(server)
	ctx := context.Background()

	snap := &models.ShareSnapshot{
		SchoolClass: models.SchoolClass{
			ID:        fmt.Sprintf("loadgen-%d", time.Now().UnixMilli()),
			Name:      "Loadgen Class",
			CreatedAt: time.Now().UnixMilli(),
		},
	}
	code, err := registry.Publish(ctx, snap)
	if err != nil {
		log.Fatalf("publish failed: %v", err)
	}
	log.Printf("published %s, starting %d viewers x %d messages", code, viewers, messages)

	var sent, failed atomic.Int64
	start := time.Now()

	var wg sync.WaitGroup
	for v := 0; v < viewers; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			senderID := fmt.Sprintf("student_load_%d", v)
			session := chat.NewSession(registry, code, senderID, fmt.Sprintf("Viewer %d", v))

			for m := 0; m < messages; m++ {
				if _, err := session.Send(ctx, fmt.Sprintf("viewer %d message %d", v, m)); err != nil {
					failed.Add(1)
					log.Printf("viewer %d send %d failed: %v", v, m, err)
				} else {
					sent.Add(1)
				}
				if _, _, err := session.Poll(ctx); err != nil {
					log.Printf("viewer %d poll failed: %v", v, err)
				}
				time.Sleep(interval)
			}
		}(v)
	}
	wg.Wait()
	elapsed := time.Since(start)

	final, err := registry.Fetch(ctx, code)
	if err != nil {
		log.Fatalf("final fetch failed: %v", err)
	}

	log.Printf("done in %s: sent=%d failed=%d stored=%d", elapsed.Round(time.Millisecond), sent.Load(), failed.Load(), len(final.Messages))
	if int64(len(final.Messages)) != sent.Load() {
		log.Fatalf("MESSAGE LOSS: %d sent but %d stored", sent.Load(), len(final.Messages))
	}
	log.Printf("no message loss across %d concurrent sessions", viewers)
}
