// Package flash carries one-shot user-facing messages across a redirect,
// cookie-backed. A message set during a mutating request is returned (and
// cleared) by the next request that reads it.
package flash

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const cookieName = "fh_flash"

// Message is a single pending notification.
type Message struct {
	Level string `json:"level"` // success / error / info
	Text  string `json:"text"`
}

// Success queues a success notification.
func Success(c *gin.Context, text string) { set(c, Message{Level: "success", Text: text}) }

// Error queues an error notification.
func Error(c *gin.Context, text string) { set(c, Message{Level: "error", Text: text}) }

// Info queues a neutral notification.
func Info(c *gin.Context, text string) { set(c, Message{Level: "info", Text: text}) }

func set(c *gin.Context, m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	encoded := base64.URLEncoding.EncodeToString(payload)
	c.SetCookie(cookieName, encoded, 300, "/", "", false, true)
}

// Take returns the pending message, if any, and clears it.
func Take(c *gin.Context) (Message, bool) {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return Message{}, false
	}
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(decoded, &m); err != nil {
		return Message{}, false
	}
	return m, true
}

// Attach merges a pending flash message into a JSON payload, so GET
// endpoints can surface the result of the preceding redirect.
func Attach(c *gin.Context, payload gin.H) gin.H {
	if m, ok := Take(c); ok {
		payload["flash"] = m
	}
	return payload
}
