package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetRateLimitType(t *testing.T) {
	cases := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/ping", RateLimitTypeHealth},
		{"/status", RateLimitTypeHealth},
		{"/scanner/:eventID/:ticketID", RateLimitTypeScanner},
		{"/post_ticket", RateLimitTypePurchase},
		{"/reserve_ticket", RateLimitTypePurchase},
		{"/cancel_reserve_ticket", RateLimitTypePurchase},
		{"/transfer_ticket/:srcUserID/:ticketID/:dstUserEmail", RateLimitTypePurchase},
		{"/signup", RateLimitTypeAuth},
		{"/eo_signin", RateLimitTypeAuth},
		{"/reset_password", RateLimitTypeAuth},
		{"/eo_create_event/:organizerID", RateLimitTypeOrganizer},
		{"/eo_get_all_ticket_sold/:eventID", RateLimitTypeOrganizer},
		{"/event", RateLimitTypePublic},
		{"/event/:eventID", RateLimitTypePublic},
		{"/ticket/:ticketID", RateLimitTypePublic},
		{"/user_ticket/:userID", RateLimitTypePublic},
		{"/something/else", RateLimitTypeDefault},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, getRateLimitType(tc.path))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(remoteAddr string, headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.RemoteAddr = remoteAddr
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	t.Run("prefers the first X-Forwarded-For entry", func(t *testing.T) {
		c := newCtx("10.0.0.1:1234", map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.2",
		})
		assert.Equal(t, "203.0.113.7", getClientIP(c))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		c := newCtx("10.0.0.1:1234", map[string]string{
			"X-Real-IP": "203.0.113.9",
		})
		assert.Equal(t, "203.0.113.9", getClientIP(c))
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		c := newCtx("10.0.0.1:1234", nil)
		assert.Equal(t, "10.0.0.1", getClientIP(c))
	})

	t.Run("ignores a malformed forwarded header", func(t *testing.T) {
		c := newCtx("10.0.0.1:1234", map[string]string{
			"X-Forwarded-For": "not-an-ip",
		})
		assert.Equal(t, "10.0.0.1", getClientIP(c))
	})
}
