package service

import (
	"net/url"
	"time"

	"forumhub/internal/auth"
	"forumhub/internal/authz"
	"forumhub/internal/cache"
	"forumhub/internal/metrics"
)

const proxyCacheKeyPrefix = "github_api_proxy_user_"

// GithubService is a cached proxy to the external user-data API, plus the
// pull-style avatar refresh path.
type GithubService struct {
	users   userStore
	cache   cache.Store
	reader  githubReader
	avatars *AvatarService
	ttl     time.Duration
}

func NewGithubService(users userStore, store cache.Store, reader githubReader, avatars *AvatarService, ttlMinutes int) *GithubService {
	return &GithubService{
		users:   users,
		cache:   store,
		reader:  reader,
		avatars: avatars,
		ttl:     time.Duration(ttlMinutes) * time.Minute,
	}
}

// UserData returns the cached JSON blob for username, fetching and caching
// it on a miss. A populated entry is served as-is until its TTL expires.
func (s *GithubService) UserData(username string) ([]byte, error) {
	fetched := false
	blob, err := s.cache.Remember(proxyCacheKeyPrefix+username, s.ttl, func() ([]byte, error) {
		fetched = true
		data, err := s.reader.UserData(username)
		if err != nil {
			return nil, err
		}
		return data.Raw, nil
	})
	if err != nil {
		return nil, err
	}
	if fetched {
		metrics.IncProxyCache("miss")
	} else {
		metrics.IncProxyCache("hit")
	}
	return blob, nil
}

// RefreshCache force-fetches the user's external data, overwrites the proxy
// cache entry and pulls the fresh avatar_url through the avatar storage
// pipeline. This is a pull update, distinct from the upload path.
func (s *GithubService) RefreshCache(actor auth.Identity, userID uint64) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if !authz.CanUpdate(actor, user) {
		return ErrUnauthorized
	}

	data, err := s.reader.UserData(user.GithubName)
	if err != nil {
		return err
	}
	if err := s.cache.Put(proxyCacheKeyPrefix+user.GithubName, data.Raw, s.ttl); err != nil {
		return err
	}
	metrics.IncProxyCache("refresh")

	// Refresh the avatar from the freshly fetched source.
	if data.AvatarURL != "" {
		raw, err := s.reader.FetchBytes(data.AvatarURL)
		if err != nil {
			return err
		}
		name, err := s.avatars.Store(userID, sourceNameFromURL(data.AvatarURL), raw)
		if err != nil {
			return err
		}
		user.ImageURL = data.AvatarURL
		user.Avatar = name
	}
	return s.users.Save(user)
}

// sourceNameFromURL reduces an image URL to its path component so the
// extension classifier never sees query strings.
func sourceNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
