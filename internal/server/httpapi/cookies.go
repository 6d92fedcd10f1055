package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"github.com/labstack/echo/v4"
)

// setAuthCookies stores the credential cookie and the client-visible
// authenticated flag. Both live as long as the token.
func setAuthCookies(c echo.Context, tok *auth.Token, ttl time.Duration, secure bool) {
	maxAge := int(ttl / time.Second)

	c.SetCookie(&http.Cookie{
		Name:     common.AccessTokenHeaderName,
		Value:    common.BearerPrefix + tok.Value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     common.AuthStateCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(c echo.Context, secure bool) {
	for _, name := range []string{common.AccessTokenHeaderName, common.AuthStateCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == common.AccessTokenHeaderName,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// credentials collects every token candidate of the request.
func credentials(c echo.Context) auth.Credentials {
	req := c.Request()
	creds := auth.Credentials{
		Transport:     req.Header.Get(common.AccessTokenHeaderName),
		Authorization: req.Header.Get(echo.HeaderAuthorization),
	}
	if ck, err := c.Cookie(common.AccessTokenHeaderName); err == nil {
		creds.Cookie = ck.Value
	}
	return creds
}
