package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"forumhub/internal/auth"
	"forumhub/internal/authz"
	"forumhub/model"
)

// ExtStatus classifies a client-declared file extension. Detection is a
// total function: every input maps to exactly one of these.
type ExtStatus int

const (
	ExtValid ExtStatus = iota
	ExtMissing
	ExtDisallowed
)

var allowedExtensions = map[string]bool{"png": true, "jpg": true, "gif": true}

// ClassifyExtension inspects the declared filename only. The actual bytes
// are not sniffed; a declared extension is trusted as-is.
func ClassifyExtension(filename string) (string, ExtStatus) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", ExtMissing
	}
	if !allowedExtensions[ext] {
		return ext, ExtDisallowed
	}
	return ext, ExtValid
}

// Upload is the ephemeral uploaded image: raw bytes plus the client-declared
// original name. Consumed once per request, never persisted as an entity.
type Upload struct {
	Name string
	Data []byte
}

// AvatarService stores uploaded avatars on disk, downsizes them and keeps
// the profile's avatar reference current.
type AvatarService struct {
	users   userStore
	dir     string
	maxSize int
}

func NewAvatarService(users userStore, dir string, maxSize int) *AvatarService {
	return &AvatarService{users: users, dir: dir, maxSize: maxSize}
}

// UpdateAvatar validates and stores an uploaded image for userID, then
// points the profile at the new file.
//
// The write sequence is deliberately non-transactional: file write, record
// update and notification are separate steps with no rollback. A crash in
// between leaves an orphaned file on disk, and replaced avatars are never
// deleted. Both gaps mirror the long-standing production behavior.
func (s *AvatarService) UpdateAvatar(actor auth.Identity, userID uint64, upload *Upload) (*model.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdate(actor, user) {
		return nil, ErrUnauthorized
	}
	if upload == nil || len(upload.Data) == 0 {
		return nil, ErrNoFile
	}

	name, err := s.Store(userID, upload.Name, upload.Data)
	if err != nil {
		return nil, err
	}

	user.Avatar = name
	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Store runs the shared storage pipeline: classify the extension, write the
// bytes under the deterministic name {id}_{unixSeconds}.{ext}, and shrink
// non-gif images in place. Returns the stored filename.
func (s *AvatarService) Store(userID uint64, sourceName string, data []byte) (string, error) {
	ext, status := ClassifyExtension(sourceName)
	switch status {
	case ExtDisallowed:
		// Nothing is written for a disallowed extension.
		return "", ErrBadExtension
	case ExtMissing:
		ext = "png"
	}

	name := fmt.Sprintf("%d_%d.%s", userID, time.Now().Unix(), ext)
	path := filepath.Join(s.dir, name)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAvatarIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAvatarIO, err)
	}

	// gif 不压缩，保持原始字节
	if ext != "gif" {
		if err := s.shrinkInPlace(path); err != nil {
			return "", fmt.Errorf("%w: %v", ErrAvatarIO, err)
		}
	}
	return name, nil
}

// shrinkInPlace bounds both dimensions by maxSize, preserving aspect ratio.
// Images already within bounds are left untouched so small files are never
// upscaled or needlessly re-encoded.
func (s *AvatarService) shrinkInPlace(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	if bounds.Dx() <= s.maxSize && bounds.Dy() <= s.maxSize {
		return nil
	}
	resized := imaging.Fit(img, s.maxSize, s.maxSize, imaging.Lanczos)
	return imaging.Save(resized, path)
}
