package auth

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/pkg/tokens"
)

type Middleware struct {
	JWTSecret []byte
	Auth      *service.AuthService
}

func NewMiddleware(jwtSecret []byte, auth *service.AuthService) *Middleware {
	return &Middleware{JWTSecret: jwtSecret, Auth: auth}
}

// resolve authenticates from the access cookie, falling back to a refresh
// rotation when the access token expired. New cookies are set on rotation.
func (m *Middleware) resolve(c echo.Context) (userID uint, role string, err error) {
	if asCookie, cerr := c.Cookie("accessToken"); cerr == nil {
		claims, perr := tokens.AccessClaimsFromToken(asCookie.Value, m.JWTSecret)
		if perr == nil {
			id, serr := strconv.ParseUint(claims.Subject, 10, 32)
			if serr != nil {
				return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			return uint(id), claims.Role, nil
		}
	}

	rfCookie, cerr := c.Cookie("refreshToken")
	if cerr != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	result, rerr := m.Auth.Refresh(c.Request().Context(), rfCookie.Value)
	if rerr != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	claims, perr := tokens.AccessClaimsFromToken(result.AccessToken, m.JWTSecret)
	if perr != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	id, serr := strconv.ParseUint(claims.Subject, 10, 32)
	if serr != nil {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return uint(id), claims.Role, nil
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, err := m.resolve(c)
		if err != nil {
			return err
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, err := m.resolve(c)
		if err != nil {
			return err
		}
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}

func setUserContext(c echo.Context, userID uint, role string) {
	c.Set("userID", userID)
	c.Set("role", role)
}

// UserID reads the authenticated user from the echo context.
func UserID(c echo.Context) (uint, bool) {
	v, ok := c.Get("userID").(uint)
	return v, ok
}

func IsAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// SessionCookies builds the cookie pair for a fresh login.
func SessionCookies(result *service.LoginResult) []*http.Cookie {
	return []*http.Cookie{
		tokens.CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp),
		tokens.CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp),
	}
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies() []*http.Cookie {
	return []*http.Cookie{
		tokens.DeleteCookie("accessToken", "/"),
		tokens.DeleteCookie("refreshToken", "/"),
	}
}
