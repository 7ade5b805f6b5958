package middleware

import (
	"fmt"
	"strings"
	"time"

	"quizhub/config"
	"quizhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthCookie carries the signed token between the browser and the API.
const AuthCookie = "quizhub_auth"

const tokenLifetime = 7 * 24 * time.Hour

// GenerateJWT signs a token for the user. contributor becomes the
// isQuizContributor claim that admin-only routes check.
func GenerateJWT(user models.User, contributor bool) (string, time.Time, error) {
	issued := time.Now()
	expires := issued.Add(tokenLifetime)

	claims := jwt.MapClaims{
		"userId":            user.ID,
		"userName":          user.UserName,
		"email":             user.Email,
		"displayName":       user.Summary().DisplayName,
		"isQuizContributor": contributor,
		"jti":               uuid.NewString(),
		"iat":               issued.Unix(),
		"exp":               expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTKey))
	return signed, expires, err
}

// SetAuthCookie stores token in an HTTP-only cookie.
func SetAuthCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   config.AppConfig.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   config.AppConfig.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// tokenFrom prefers the auth cookie and falls back to a bearer header.
func tokenFrom(c *fiber.Ctx) (string, bool) {
	if cookie := c.Cookies(AuthCookie); cookie != "" {
		return cookie, true
	}

	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return authHeader[len("Bearer "):], true
}

// JWTMiddleware rejects requests without a valid token and stores the
// caller's userId, userName and isContributor in Locals.
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString, ok := tokenFrom(c)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid authentication token", nil)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	// numeric claims decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}
	userName, _ := claims["userName"].(string)
	contributor, _ := claims["isQuizContributor"].(bool)

	c.Locals("userId", uint(userID))
	c.Locals("userName", userName)
	c.Locals("isContributor", contributor)

	return c.Next()
}
