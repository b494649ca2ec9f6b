package authz

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/fenixcs/fieldtracker/internal/config"
	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/sessioncache"
)

type CustomClaims struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.StandardClaims
}

type Log interface {
	Info(string, ...zapcore.Field)
}

type Storage interface {
	GetEmployee(string) (models.Employee, error)
	GetAuthSession(string) (models.AuthSession, error)
	TouchAuthSession(string, time.Time) error
}

const (
	keyEmployeeID models.Key = "employeeID"
	keyRole       models.Key = "employeeRole"

	// SessionTokenHeader carries the persisted remember-me token.
	SessionTokenHeader = "X-Session-Token"

	jwtTTL = 24 * time.Hour
)

type JWTAuthz struct {
	jwtSigningKey    []byte
	log              Log
	jwtSigningMethod *jwt.SigningMethodHMAC
	defaultCookie    http.Cookie
	storage          Storage
	cache            *sessioncache.Cache
}

func NewJWTAuthz(storage Storage, cache *sessioncache.Cache, signingKey string, log Log) *JWTAuthz {
	return &JWTAuthz{
		jwtSigningKey:    []byte(config.GetAsString("JWT_SIGNING_KEY", signingKey)),
		log:              log,
		jwtSigningMethod: jwt.SigningMethodHS256,
		storage:          storage,
		cache:            cache,
		defaultCookie: http.Cookie{
			HttpOnly: true,
		},
	}
}

// HashPassword derives the stored bcrypt digest for a password. Plain
// equality against stored secrets is never used anywhere.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword checks a password against a stored bcrypt digest.
func VerifyPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// JWTAuthzMiddleware resolves the caller's identity from the jwt-token
// cookie, the Authorization header or a persisted session token, and
// stores employee id and role in the request context.
func (j *JWTAuthz) JWTAuthzMiddleware(log Log) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			var employeeID string

			jwtCookie, err := r.Cookie("jwt-token")
			if err == nil && jwtCookie.Value != "" {
				employeeID, err = j.DecodeJWTToUser(jwtCookie.Value)
				if err != nil {
					employeeID = ""
					log.Info("error occurred decoding JWT from cookie", zap.Error(err))
				}
			}

			if employeeID == "" {
				if jwtHeader := r.Header.Get("Authorization"); jwtHeader != "" {
					employeeID, err = j.DecodeJWTToUser(jwtHeader)
					if err != nil {
						employeeID = ""
						log.Info("error occurred decoding token from header", zap.Error(err))
					}
				}
			}

			if employeeID == "" {
				if token := r.Header.Get(SessionTokenHeader); token != "" {
					employeeID, err = j.resolveSessionToken(r.Context(), token)
					if err != nil {
						employeeID = ""
						log.Info("error occurred resolving session token", zap.Error(err))
					}
				}
			}

			if employeeID == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			employee, err := j.storage.GetEmployee(employeeID)
			if err != nil {
				log.Info("employee not found in storage", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if employee.Status != "active" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, keyEmployeeID, employee.ID)
			ctx = context.WithValue(ctx, keyRole, employee.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireRole gates a route group on the role stored by the auth
// middleware.
func (j *JWTAuthz) RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// resolveSessionToken checks the cache first and falls back to storage.
// Expired sessions never authenticate.
func (j *JWTAuthz) resolveSessionToken(ctx context.Context, token string) (string, error) {
	if id, err := j.cache.Get(ctx, token); err == nil {
		return id, nil
	}

	session, err := j.storage.GetAuthSession(token)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if session.Expired(now) {
		return "", errors.New("session expired")
	}

	if err := j.storage.TouchAuthSession(token, now); err != nil {
		j.log.Info("error touching auth session: ", zap.Error(err))
	}

	// repopulate the cache with the remaining lifetime
	if err := j.cache.Set(ctx, token, session.EmployeeID, time.Until(session.ExpiresAt)); err != nil &&
		!errors.Is(err, sessioncache.ErrUnavailable) {
		j.log.Info("error caching auth session: ", zap.Error(err))
	}

	return session.EmployeeID, nil
}

func (j *JWTAuthz) CreateJWTTokenForUser(employeeID, role string) string {
	claims := CustomClaims{
		EmployeeID: employeeID,
		Role:       role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(jwtTTL).Unix(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.jwtSigningKey)
	if err != nil {
		log.Println("Error occurred generating JWT", err)
		return ""
	}

	return tokenString
}

func (j *JWTAuthz) DecodeJWTToUser(token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}

	decodedToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if !(j.jwtSigningMethod == token.Method) {
			// Check our method hasn't changed since issuance
			return nil, errors.New("signing method mismatch")
		}

		return j.jwtSigningKey, nil
	})

	if decodedToken == nil {
		return "", err
	}

	// There's two parts. We might decode it successfully but it might
	// be the case we aren't Valid so you must check both
	if decClaims, ok := decodedToken.Claims.(*CustomClaims); ok && decodedToken.Valid {
		return decClaims.EmployeeID, nil
	}

	return "", err
}

func (j *JWTAuthz) AuthCookie(name string, token string) *http.Cookie {
	d := j.defaultCookie
	d.Name = name
	d.Value = token
	d.Path = "/"

	return &d
}

// EmployeeIDFromContext returns the authenticated employee id, if any.
func EmployeeIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyEmployeeID).(string); ok {
		return v
	}

	return ""
}

// RoleFromContext returns the authenticated employee role, if any.
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyRole).(string); ok {
		return v
	}

	return ""
}
