package compare

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the single persisted storage entry holding the compare list.
const CookieName = "compareList"

const cookieMaxAge = 365 * 24 * 60 * 60

// CookieStore persists the compare list as a JSON array in one cookie,
// scoped to a single request/response pair.
type CookieStore struct {
	c *gin.Context
}

// NewCookieStore wraps the current request.
func NewCookieStore(c *gin.Context) *CookieStore {
	return &CookieStore{c: c}
}

// Get decodes the cookie. A missing or malformed cookie reads as empty and is
// truncated to MaxEntries in case an old client wrote a longer list.
func (s *CookieStore) Get() []int64 {
	raw, err := s.c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	if len(ids) > MaxEntries {
		ids = ids[len(ids)-MaxEntries:]
	}
	return ids
}

// Set writes the full list back. The write replaces the previous cookie so a
// read-modify-write sequence never leaves partial state.
func (s *CookieStore) Set(ids []int64) {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(CookieName, string(raw), cookieMaxAge, "/", "", false, false)
}
