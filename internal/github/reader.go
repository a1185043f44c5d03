// Package github fetches public user data from the GitHub REST API. The
// service layer caches the raw JSON; this package only does the HTTP trip.
package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserData is the subset of the API payload the service cares about, plus
// the raw body so the proxy endpoint can serve the blob untouched.
type UserData struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Blog      string `json:"blog"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Bio       string `json:"bio"`

	Raw []byte `json:"-"`
}

// Reader is the external user-data fetcher contract.
type Reader interface {
	UserData(username string) (*UserData, error)
}

// HTTPReader talks to a GitHub-compatible API over HTTP.
type HTTPReader struct {
	base   string
	client *http.Client
}

func NewHTTPReader(base string) *HTTPReader {
	return &HTTPReader{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *HTTPReader) UserData(username string) (*UserData, error) {
	resp, err := r.client.Get(fmt.Sprintf("%s/users/%s", r.base, username))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api status %d for %s", resp.StatusCode, username)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data UserData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	data.Raw = body
	return &data, nil
}

// FetchBytes downloads an arbitrary URL, used to pull a fresh avatar image.
func (r *HTTPReader) FetchBytes(url string) ([]byte, error) {
	resp, err := r.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
