// Command mockfeed serves synthetic USGS-shaped GeoJSON so the watcher can be
// exercised locally without hitting the real feed. Events are generated
// deterministically from a seed, split between coordinates inside and outside
// the default North America box, and every Nth request can be failed to
// exercise the watcher's error path.
//
// Usage:
//
//	go run ./cmd/mockfeed -addr :9100 -count 8 -fail-every 5
//	FEED_ENDPOINT=http://localhost:9100/query go run ./cmd/watcher
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

type feedResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag   float64 `json:"mag"`
	Place string  `json:"place"`
	Time  int64   `json:"time"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

var places = []string{
	"12 km SSW of Julian, CA",
	"Anchorage, AK",
	"offshore Oaxaca, Mexico",
	"south of the Fiji Islands",
	"Kermadec Islands region",
	"near the coast of central Chile",
}

// makeFeed generates one batch. The same seed, count, and base produce an
// identical batch, so repeated polls see the same events (and the same
// fingerprints) and the dedup path is actually exercised.
func makeFeed(seed int64, count int, minMag float64, base time.Time) feedResponse {
	rng := rand.New(rand.NewSource(seed))
	resp := feedResponse{Features: make([]feature, 0, count)}

	for i := 0; i < count; i++ {
		lat, lon := 30.0+rng.Float64()*30, -150.0+rng.Float64()*80 // inside the box
		if i%2 == 1 {
			lat, lon = -30.0+rng.Float64()*20, 160.0+rng.Float64()*15 // outside
		}
		resp.Features = append(resp.Features, feature{
			Properties: properties{
				Mag:   minMag + rng.Float64()*3,
				Place: places[i%len(places)],
				Time:  base.Add(time.Duration(rng.Intn(86400)) * time.Second).UnixMilli(),
			},
			Geometry: geometry{Coordinates: []float64{lon, lat, rng.Float64() * 100}},
		})
	}
	return resp
}

func main() {
	addr := flag.String("addr", ":9100", "listen address")
	count := flag.Int("count", 8, "events per response")
	failEvery := flag.Int("fail-every", 0, "return 500 on every Nth request (0 disables)")
	seed := flag.Int64("seed", 42, "random seed for reproducible batches")
	flag.Parse()

	var requests atomic.Int64

	// Fixed for the lifetime of the process so event timestamps do not
	// drift between polls.
	base := time.Now().Truncate(time.Hour).Add(-24 * time.Hour)

	http.HandleFunc("GET /query", func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if *failEvery > 0 && n%int64(*failEvery) == 0 {
			http.Error(w, "synthetic outage", http.StatusInternalServerError)
			return
		}

		minMag := 0.0
		if s := r.URL.Query().Get("minmagnitude"); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				minMag = v
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(makeFeed(*seed, *count, minMag, base)); err != nil {
			log.Printf("encode response: %v", err)
		}
	})

	fmt.Printf("mockfeed listening on %s\n", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
