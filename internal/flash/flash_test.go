package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(t *testing.T, cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, w
}

func TestFlashSurvivesOneRedirect(t *testing.T) {
	// First request queues the message.
	c1, w1 := newContext(t, nil)
	Success(c1, "Update Avatar Success")

	resp := w1.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no flash cookie set")
	}

	// Second request (after the redirect) takes it exactly once.
	c2, _ := newContext(t, cookies)
	msg, ok := Take(c2)
	if !ok {
		t.Fatal("flash message lost across redirect")
	}
	if msg.Level != "success" || msg.Text != "Update Avatar Success" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestTakeWithoutPendingMessage(t *testing.T) {
	c, _ := newContext(t, nil)
	if _, ok := Take(c); ok {
		t.Fatal("Take reported a message with none pending")
	}
}

func TestAttachMergesFlash(t *testing.T) {
	c1, w1 := newContext(t, nil)
	Error(c1, "Revoke Failed")

	c2, _ := newContext(t, w1.Result().Cookies())
	payload := Attach(c2, gin.H{"tokens": []string{}})
	m, ok := payload["flash"].(Message)
	if !ok {
		t.Fatal("flash not attached to payload")
	}
	if m.Level != "error" || m.Text != "Revoke Failed" {
		t.Fatalf("attached message = %+v", m)
	}
}
