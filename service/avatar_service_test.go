package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"gorm.io/gorm"

	"forumhub/internal/auth"
	"forumhub/model"
)

type fakeUsers struct {
	users map[uint64]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uint64]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Save(u *model.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestClassifyExtension(t *testing.T) {
	cases := []struct {
		name   string
		ext    string
		status ExtStatus
	}{
		{"avatar.png", "png", ExtValid},
		{"avatar.jpg", "jpg", ExtValid},
		{"animated.gif", "gif", ExtValid},
		{"AVATAR.PNG", "png", ExtValid},
		{"photo.bmp", "bmp", ExtDisallowed},
		{"archive.tar.gz", "gz", ExtDisallowed},
		{"noextension", "", ExtMissing},
		{"", "", ExtMissing},
	}
	for _, tc := range cases {
		ext, status := ClassifyExtension(tc.name)
		if ext != tc.ext || status != tc.status {
			t.Errorf("ClassifyExtension(%q) = (%q, %d), want (%q, %d)", tc.name, ext, status, tc.ext, tc.status)
		}
	}
}

func TestUpdateAvatarResizesLargeImage(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 42, Email: "a@b.c"})
	svc := NewAvatarService(users, dir, 380)

	upload := &Upload{Name: "avatar.png", Data: pngBytes(t, 500, 300)}
	user, err := svc.UpdateAvatar(auth.Identity{UserID: 42}, 42, upload)
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}

	if !strings.HasPrefix(user.Avatar, "42_") || !strings.HasSuffix(user.Avatar, ".png") {
		t.Fatalf("avatar name = %q, want 42_<ts>.png", user.Avatar)
	}
	stored, err := users.FindByID(42)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Avatar != user.Avatar {
		t.Fatalf("persisted avatar = %q, want %q", stored.Avatar, user.Avatar)
	}

	img, err := imaging.Open(filepath.Join(dir, user.Avatar))
	if err != nil {
		t.Fatalf("open stored avatar: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 380 || b.Dy() != 228 {
		t.Fatalf("stored dims = %dx%d, want 380x228", b.Dx(), b.Dy())
	}
}

func TestUpdateAvatarKeepsSmallImage(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 7})
	svc := NewAvatarService(users, dir, 380)

	data := pngBytes(t, 100, 80)
	user, err := svc.UpdateAvatar(auth.Identity{UserID: 7}, 7, &Upload{Name: "small.png", Data: data})
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}

	path := filepath.Join(dir, user.Avatar)
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open stored avatar: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("stored dims = %dx%d, want 100x80 (no upscaling)", b.Dx(), b.Dy())
	}
	// Within bounds means no re-encode either.
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored avatar: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("small image was re-encoded")
	}
}

func TestUpdateAvatarGifNeverRecompressed(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 9})
	svc := NewAvatarService(users, dir, 380)

	data := gifBytes(t, 600, 600)
	user, err := svc.UpdateAvatar(auth.Identity{UserID: 9}, 9, &Upload{Name: "anim.gif", Data: data})
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, user.Avatar))
	if err != nil {
		t.Fatalf("read stored gif: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("gif bytes were modified")
	}
}

func TestUpdateAvatarDisallowedExtensionWritesNothing(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 42, Avatar: "42_1.png"})
	svc := NewAvatarService(users, dir, 380)

	_, err := svc.UpdateAvatar(auth.Identity{UserID: 42}, 42, &Upload{Name: "photo.bmp", Data: pngBytes(t, 10, 10)})
	if !errors.Is(err, ErrBadExtension) {
		t.Fatalf("err = %v, want ErrBadExtension", err)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("files written on disallowed extension: %v", names)
	}
	stored, _ := users.FindByID(42)
	if stored.Avatar != "42_1.png" {
		t.Fatalf("avatar reference changed to %q", stored.Avatar)
	}
}

func TestUpdateAvatarMissingExtensionDefaultsToPng(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 3})
	svc := NewAvatarService(users, dir, 380)

	user, err := svc.UpdateAvatar(auth.Identity{UserID: 3}, 3, &Upload{Name: "blob", Data: pngBytes(t, 10, 10)})
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	if !strings.HasSuffix(user.Avatar, ".png") {
		t.Fatalf("avatar name = %q, want .png suffix", user.Avatar)
	}
}

func TestUpdateAvatarNoFile(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 5})
	svc := NewAvatarService(users, t.TempDir(), 380)

	if _, err := svc.UpdateAvatar(auth.Identity{UserID: 5}, 5, nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("err = %v, want ErrNoFile", err)
	}
	if _, err := svc.UpdateAvatar(auth.Identity{UserID: 5}, 5, &Upload{Name: "x.png"}); !errors.Is(err, ErrNoFile) {
		t.Fatalf("empty data: err = %v, want ErrNoFile", err)
	}
}

func TestUpdateAvatarRequiresOwnership(t *testing.T) {
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 5}, &model.User{ID: 6})
	svc := NewAvatarService(users, dir, 380)

	_, err := svc.UpdateAvatar(auth.Identity{UserID: 6}, 5, &Upload{Name: "a.png", Data: pngBytes(t, 10, 10)})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Fatalf("files written on unauthorized upload: %v", names)
	}
}

func TestUpdateAvatarUserNotFound(t *testing.T) {
	svc := NewAvatarService(newFakeUsers(), t.TempDir(), 380)
	_, err := svc.UpdateAvatar(auth.Identity{UserID: 1}, 1, &Upload{Name: "a.png", Data: pngBytes(t, 10, 10)})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestStoreKeepsPredecessorFiles(t *testing.T) {
	// Replaced avatars are intentionally retained; the pointer just moves on.
	dir := t.TempDir()
	users := newFakeUsers(&model.User{ID: 8})
	svc := NewAvatarService(users, dir, 380)

	first, err := svc.Store(8, "one.png", pngBytes(t, 10, 10))
	if err != nil {
		t.Fatalf("first store: %v", err)
	}
	second, err := svc.Store(8, "two.jpg", jpgBytes(t, 12, 12))
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	for _, name := range []string{first, second} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("stored file %s missing: %v", name, err)
		}
	}
}

func jpgBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode jpg: %v", err)
	}
	return buf.Bytes()
}

func TestStoreNamePattern(t *testing.T) {
	dir := t.TempDir()
	svc := NewAvatarService(newFakeUsers(), dir, 380)
	name, err := svc.Store(42, "avatar.jpg", jpgBytes(t, 10, 10))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	var id, ts int64
	var ext string
	if _, err := fmt.Sscanf(name, "%d_%d.%s", &id, &ts, &ext); err != nil {
		t.Fatalf("name %q does not match {id}_{ts}.{ext}: %v", name, err)
	}
	if id != 42 || ts == 0 || ext != "jpg" {
		t.Fatalf("parsed name = (%d, %d, %s)", id, ts, ext)
	}
}
