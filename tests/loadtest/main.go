package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:18090", "clanwatch base URL")
	clanTag      = flag.String("clan", "", "clan tag to query, empty uses the server default")
	playerTags   = flag.StringSlice("players", nil, "player tags used for /player and binding requests")
	numWorkers   = flag.Int("workers", 50, "concurrent workers")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
	numGroups    = flag.Int("groups", 20, "distinct chat groups used for bindings")
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Println("=== ClanWatch Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Target: %s\n\n", *numWorkers, *testDuration, *baseURL)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Every worker asks for the same cold keys at once; the upstream should see one request per key.
	fmt.Println("\n--- Phase 1: Cold burst on clan reports ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		switch rng.Intn(3) {
		case 0:
			return doGet("/clan", nil)
		case 1:
			return doGet("/members", url.Values{"limit": {"10"}})
		default:
			return doGet("/activity", nil)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed reads (cached) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doGet("/clan", nil)
		case r < 0.40:
			return doGet("/war", nil)
		case r < 0.55:
			return doGet("/activity/players", nil)
		case r < 0.65:
			return doGet("/raid", nil)
		case r < 0.75:
			return doGet("/games", nil)
		case r < 0.85:
			return doGet("/nextwar", nil)
		default:
			return doGetPlayer(rng)
		}
	})

	if len(*playerTags) == 0 {
		fmt.Println("\nNo --players given, skipping binding phase")
		return
	}
	fmt.Println("\n--- Phase 3: Binding writes (40% POST, 20% DELETE, 40% GET) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doBind(rng)
		case r < 0.60:
			return doUnbind(rng)
		default:
			return doGet("/bindings", url.Values{"group": {groupID(rng)}})
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func groupID(rng *rand.Rand) string {
	return fmt.Sprintf("-%d", 1000+rng.Intn(*numGroups))
}

func randomPlayer(rng *rand.Rand) string {
	return (*playerTags)[rng.Intn(len(*playerTags))]
}

func do(method, endpoint string, query url.Values, body []byte, okStatus int) result {
	if query == nil {
		query = url.Values{}
	}
	if *clanTag != "" && query.Get("tag") == "" && endpoint != "/bindings" {
		query.Set("tag", *clanTag)
	}
	target := *baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	label := method + " " + endpoint
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return result{label, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != okStatus}
}

func doGet(endpoint string, query url.Values) result {
	return do(http.MethodGet, endpoint, query, nil, http.StatusOK)
}

func doGetPlayer(rng *rand.Rand) result {
	if len(*playerTags) == 0 {
		return doGet("/clan", nil)
	}
	return doGet("/player", url.Values{"tag": {randomPlayer(rng)}})
}

func doBind(rng *rand.Rand) result {
	groupID := -1000 - int64(rng.Intn(*numGroups))
	body, _ := json.Marshal(map[string]interface{}{
		"group_id":     groupID,
		"user_id":      rng.Int63n(1_000_000) + 1,
		"tag":          randomPlayer(rng),
		"display_name": fmt.Sprintf("load-%d", rng.Intn(1000)),
	})
	return do(http.MethodPost, "/bindings", nil, body, http.StatusCreated)
}

func doUnbind(rng *rand.Rand) result {
	query := url.Values{
		"group": {groupID(rng)},
		"user":  {fmt.Sprintf("%d", rng.Int63n(1_000_000)+1)},
	}
	return do(http.MethodDelete, "/bindings", query, nil, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
