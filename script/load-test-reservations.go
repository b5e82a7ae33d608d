package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// SessionRequest is the booking payload
type SessionRequest struct {
	ActivityType             string         `json:"activity_type"`
	Params                   map[string]any `json:"params"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
}

// BalanceResponse mirrors GET /user/:userId/balance
type BalanceResponse struct {
	Balance          string `json:"balance"`
	ReservedBalance  string `json:"reserved_balance"`
	AvailableBalance string `json:"available_balance"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	UserID       int
	StatusCode   int
	ResponseTime time.Duration
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests int
	Reserved      map[int]int // 201 per user
	Rejected      map[int]int // 402 per user
	ErrorCounts   map[string]int
	ResponseTimes []time.Duration
	TotalTime     time.Duration
	Lock          sync.Mutex
}

type client struct {
	http      *http.Client
	baseURL   string
	jwtSecret string
}

func main() {
	// Define command line flags
	concurrency := flag.Int("c", 20, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 200, "Total number of reservations to attempt")
	userIDsStr := flag.String("u", "1,2,3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	fund := flag.String("fund", "100.00", "Amount topped up on each user before the race")
	activity := flag.String("activity", "voice_standard", "Activity type to reserve")
	minutes := flag.Int("minutes", 10, "Estimated duration of every reservation")
	jwtSecret := flag.String("jwt-secret", "", "HMAC secret used to mint bearer tokens; empty sends none")
	flag.Parse()

	// Parse user IDs
	var userIDs []int
	for _, idStr := range strings.Split(*userIDsStr, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(idStr)); err == nil && id > 0 {
			userIDs = append(userIDs, id)
		}
	}

	// Default to user ID 1 if no valid IDs provided
	if len(userIDs) == 0 {
		userIDs = []int{1}
	}

	c := &client{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(*baseURL, "/"),
		jwtSecret: *jwtSecret,
	}

	fmt.Printf("Racing %d reservations of %s x %d min across users %v\n", *totalRequests, *activity, *minutes, userIDs)
	fmt.Printf("Concurrency: %d goroutines, funding %s per user\n", *concurrency, *fund)

	before := make(map[int]BalanceResponse, len(userIDs))
	for _, id := range userIDs {
		if err := c.topUp(id, *fund); err != nil {
			fmt.Fprintf(os.Stderr, "top-up for user %d failed: %v\n", id, err)
			os.Exit(1)
		}
		balance, err := c.balance(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "balance for user %d failed: %v\n", id, err)
			os.Exit(1)
		}
		before[id] = balance
	}

	// Initialize test statistics
	stats := &TestStats{
		TotalRequests: *totalRequests,
		Reserved:      make(map[int]int),
		Rejected:      make(map[int]int),
		ErrorCounts:   make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
	}

	// Channel to distribute work
	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- userIDs[rand.Intn(len(userIDs))]
	}
	close(jobs)

	// Start worker goroutines
	body := SessionRequest{
		ActivityType:             *activity,
		Params:                   map[string]any{"track": "general", "video_id": "load-test"},
		EstimatedDurationMinutes: *minutes,
	}

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				stats.record(c.reserve(userID, body))
			}
		}()
	}
	wg.Wait()
	stats.TotalTime = time.Since(startTime)

	printResults(stats)

	// Every accepted reservation must be backed by funds
	ok := true
	fmt.Println("\n----------------- INVARIANTS -----------------")
	for _, id := range userIDs {
		after, err := c.balance(id)
		if err != nil {
			fmt.Printf("User %d: could not read balance: %v\n", id, err)
			ok = false
			continue
		}
		balance := decimal.RequireFromString(after.Balance)
		reserved := decimal.RequireFromString(after.ReservedBalance)
		grown := reserved.Sub(decimal.RequireFromString(before[id].ReservedBalance))

		status := "ok"
		if reserved.GreaterThan(balance) || reserved.IsNegative() {
			status = "VIOLATED: reserved exceeds balance"
			ok = false
		}
		fmt.Printf("User %d: balance=%s reserved=%s (+%s over %d reservations) %s\n",
			id, after.Balance, after.ReservedBalance, grown.StringFixed(2), stats.Reserved[id], status)
	}

	if !ok {
		os.Exit(1)
	}
}

func (c *client) do(method string, userID int, path string, payload any, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s/user/%d%s", c.baseURL, userID, path), body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.jwtSecret != "" {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Issuer:    "coaching-wallet",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte(c.jwtSecret))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *client) topUp(userID int, amount string) error {
	status, err := c.do(http.MethodPost, userID, "/topup", map[string]string{
		"amount":            amount,
		"payment_method_id": "load-test",
		"idempotency_key":   fmt.Sprintf("load-%d-%d", userID, time.Now().UnixNano()),
	}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return fmt.Errorf("HTTP status code %d", status)
	}
	return nil
}

func (c *client) balance(userID int) (BalanceResponse, error) {
	var out BalanceResponse
	status, err := c.do(http.MethodGet, userID, "/balance", nil, &out)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("HTTP status code %d", status)
	}
	return out, err
}

func (c *client) reserve(userID int, body SessionRequest) TestResult {
	start := time.Now()
	status, err := c.do(http.MethodPost, userID, "/sessions", body, nil)
	return TestResult{UserID: userID, StatusCode: status, ResponseTime: time.Since(start), Error: err}
}

func (s *TestStats) record(r TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.ResponseTimes = append(s.ResponseTimes, r.ResponseTime)
	switch {
	case r.Error != nil:
		s.ErrorCounts[r.Error.Error()]++
	case r.StatusCode == http.StatusCreated:
		s.Reserved[r.UserID]++
	case r.StatusCode == http.StatusPaymentRequired:
		s.Rejected[r.UserID]++
	default:
		s.ErrorCounts[fmt.Sprintf("HTTP status code %d", r.StatusCode)]++
	}
}

func printResults(stats *TestStats) {
	sorted := make([]time.Duration, len(stats.ResponseTimes))
	copy(sorted, stats.ResponseTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	percentile := func(p int) time.Duration {
		if len(sorted) == 0 {
			return 0
		}
		return sorted[len(sorted)*p/100]
	}

	reserved, rejected := 0, 0
	for _, n := range stats.Reserved {
		reserved += n
	}
	for _, n := range stats.Rejected {
		rejected += n
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Reserved (201):      %d\n", reserved)
	fmt.Printf("Rejected (402):      %d\n", rejected)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(len(sorted))/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("P50 Response:        %v\n", percentile(50))
	fmt.Printf("P90 Response:        %v\n", percentile(90))
	fmt.Printf("P99 Response:        %v\n", percentile(99))

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}
}
