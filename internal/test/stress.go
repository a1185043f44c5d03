// Command-line stress test that simulates concurrent profile reads, follow
// toggles and github proxy hits against a running instance, then prints a
// CSV summary per operation.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

var client = &http.Client{
	Timeout: 10 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

type sample struct {
	Op      string
	Status  int
	Elapsed time.Duration
	Err     string
}

func doPostJSON(url string, body any, headers map[string]string) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// ensureUser registers the load-test account; 400 means it already exists.
func ensureUser(username, password, email string) error {
	body := map[string]string{"username": username, "password": password, "email": email}
	status, _, err := doPostJSON(baseURL+"/users/register", body, nil)
	if err != nil {
		return err
	}
	if status != 200 && status != 400 {
		return fmt.Errorf("register status %d", status)
	}
	return nil
}

func login(username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	status, data, err := doPostJSON(baseURL+"/users/login", body, map[string]string{"X-Device": "stress"})
	if err != nil {
		return "", err
	}
	if status != 200 {
		return "", fmt.Errorf("login status %d body=%s", status, string(data))
	}
	var res map[string]string
	if err := json.Unmarshal(data, &res); err != nil {
		return "", err
	}
	return res["access_token"], nil
}

func timedGet(op, url string, out chan<- sample) {
	start := time.Now()
	resp, err := client.Get(url)
	s := sample{Op: op, Elapsed: time.Since(start)}
	if err != nil {
		s.Err = err.Error()
	} else {
		s.Status = resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	out <- s
}

func timedToggle(token string, targetID uint64, out chan<- sample) {
	start := time.Now()
	req, _ := http.NewRequest("POST", fmt.Sprintf("%s/users/%d/follow", baseURL, targetID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	s := sample{Op: "follow_toggle", Elapsed: time.Since(start)}
	if err != nil {
		s.Err = err.Error()
	} else {
		s.Status = resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	out <- s
}

func main() {
	const (
		workers  = 8
		rounds   = 25
		username = "stress_user"
		password = "Passw0rd!"
	)

	if err := ensureUser(username, password, "stress@example.com"); err != nil {
		log.Fatalf("ensure user: %v", err)
	}
	token, err := login(username, password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	samples := make(chan sample, workers*rounds*3)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				timedGet("index", baseURL+"/users", samples)
				timedGet("github_proxy", baseURL+"/github_api_proxy/users/octocat", samples)
				timedToggle(token, 1, samples)
			}
		}()
	}
	wg.Wait()
	close(samples)

	type agg struct {
		count  int
		errors int
		total  time.Duration
		max    time.Duration
	}
	stats := make(map[string]*agg)
	for s := range samples {
		a := stats[s.Op]
		if a == nil {
			a = &agg{}
			stats[s.Op] = a
		}
		a.count++
		a.total += s.Elapsed
		if s.Elapsed > a.max {
			a.max = s.Elapsed
		}
		if s.Err != "" || s.Status >= 500 {
			a.errors++
		}
	}

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"op", "count", "errors", "avg_ms", "max_ms"})
	for op, a := range stats {
		avg := a.total / time.Duration(a.count)
		_ = w.Write([]string{
			op,
			fmt.Sprintf("%d", a.count),
			fmt.Sprintf("%d", a.errors),
			fmt.Sprintf("%.1f", float64(avg.Microseconds())/1000),
			fmt.Sprintf("%.1f", float64(a.max.Microseconds())/1000),
		})
	}
	w.Flush()
}
