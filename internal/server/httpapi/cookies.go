package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskvault/internal/server/services"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"

	// The refresh cookie is scoped to the refresh endpoint so the browser
	// never attaches the long-lived token to ordinary API calls.
	accessCookiePath  = "/"
	refreshCookiePath = "/api/auth/refresh"
)

// setSessionCookies writes both token cookies. HttpOnly and SameSite=Strict
// always; Secure only in production so local HTTP development still works.
func setSessionCookies(c *gin.Context, pair *services.TokenPair, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, pair.AccessToken, int(accessTTL.Seconds()), accessCookiePath, "", secure, true)
	c.SetCookie(refreshCookieName, pair.RefreshToken, int(refreshTTL.Seconds()), refreshCookiePath, "", secure, true)
}

// clearSessionCookies expires both token cookies.
func clearSessionCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, "", -1, accessCookiePath, "", secure, true)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", secure, true)
}
