package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markbates/goth/gothic"

	"github.com/pracsphere/tasks/internal/models"
)

// we are doing this to avoid collision with libraries
type contextKey string

const userIDKey contextKey = "userID"

// Auth issues and verifies the JWT session cookie and runs the Google
// OAuth login flow.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Middleware rejects requests without a valid session cookie and puts
// the session's user id on the request context for the handlers.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_token")
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := a.VerifyToken(cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func BeginGoogleAuth(w http.ResponseWriter, r *http.Request) {
	//gothic looks for a provider query by default
	//forcing google
	q := r.URL.Query()
	q.Add("provider", "google")
	r.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(w, r)
}

func (a *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	user, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	//auth success - issue jwt and set cookie
	token, err := a.GenerateJWT(user.UserID, user.Email)
	if err != nil {
		slog.Error("jwt_generation_failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true, //not visible to JS
		//Secure: true,//enable it for HTTPS in production
	})

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	// clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	//clear gothic session
	gothic.Logout(w, r)
	respondMessage(w, http.StatusOK, "Logged out")
}

func (a *Auth) GenerateJWT(userID, email string) (string, error) {
	expireTime := time.Now().Add(24 * time.Hour)

	claims := &models.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	//sign with the secret key and return
	return token.SignedString(a.secret)
}

func (a *Auth) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}
