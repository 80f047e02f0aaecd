// flickr_throttle.go

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	flickrbridge "github.com/opengovern/flickr-bridge"
	"github.com/opengovern/flickr-bridge/adapters"
)

// Several workers share one Session behind a mutex and call flickr.test.echo.
// The printed start times show that requests never start closer together
// than the configured delay.
func main() {
	apiKey := os.Getenv("FLICKR_API_KEY")
	secret := os.Getenv("FLICKR_SHARED_SECRET")
	if apiKey == "" || secret == "" {
		log.Fatal("FLICKR_API_KEY and FLICKR_SHARED_SECRET environment variables must be set")
	}

	cfg := flickrbridge.DefaultConfig()
	cfg.Credentials.Legacy = &flickrbridge.LegacyCredentials{APIKey: apiKey, SharedSecret: secret}
	cfg.RequestDelay = 1500 * time.Millisecond
	cfg.Debug = true

	adapter, err := adapters.NewFlickrAdapter(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}
	session, err := flickrbridge.NewSession(cfg, adapter)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	numWorkers := 3
	callsPerWorker := 4

	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	begin := time.Now()

	for w := 0; w < numWorkers; w++ {
		workerID := w
		go func() {
			defer wg.Done()
			for attempt := 1; attempt <= callsPerWorker; attempt++ {
				mu.Lock()
				_, err := session.Call(context.Background(), "flickr.test.echo", false,
					flickrbridge.Param{Key: "worker", Value: strconv.Itoa(workerID)},
					flickrbridge.Param{Key: "attempt", Value: strconv.Itoa(attempt)},
				)
				info := session.RateLimitInfo()
				mu.Unlock()

				if err != nil {
					fmt.Printf("[Worker %d][Attempt %d] request failed: %v\n", workerID, attempt, err)
					return
				}
				fmt.Printf("[Worker %d][Attempt %d] started at +%v\n", workerID, attempt,
					info.LastRequestAt.Sub(begin).Round(time.Millisecond))
			}
		}()
	}

	wg.Wait()
	fmt.Printf("%d requests in %v\n", numWorkers*callsPerWorker, time.Since(begin).Round(time.Millisecond))
}
