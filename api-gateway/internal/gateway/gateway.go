package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"delivery-platform/api-gateway/internal/auth"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	CartSvcURL string
	AggSvcURL  string
}

type Gateway struct {
	config   Config
	client   HTTPClient
	sessions *auth.Registry
	logger   *zap.Logger
}

func NewGateway(config Config, client HTTPClient, sessions *auth.Registry, logger *zap.Logger) *Gateway {
	return &Gateway{
		config:   config,
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

type userKey struct{}

func withUser(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the caller resolved by Guard, or a guest.
func UserFrom(ctx context.Context) auth.User {
	if u, ok := ctx.Value(userKey{}).(auth.User); ok {
		return u
	}
	return auth.User{Role: auth.RoleGuest}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// Guard resolves the caller from the bearer token and rejects requests whose route the
// caller's role may not enter. Unclassified paths pass through untouched.
func (g *Gateway) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, guarded := auth.RouteForPath(r.URL.Path)
		if !guarded {
			next.ServeHTTP(w, r)
			return
		}

		user := auth.User{Role: auth.RoleGuest}
		if token := bearerToken(r); token != "" {
			sess, ok := g.sessions.Lookup(token)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown session"})
				return
			}
			user, _ = sess.User()
		}

		if !auth.CanAccess(user.Role, route) {
			g.logger.Info("access denied",
				zap.String("path", r.URL.Path),
				zap.String("role", string(user.Role)),
				zap.String("route", string(route)),
			)
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "forbidden",
				"role":  string(user.Role),
				"route": string(route),
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

type loginRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  auth.User  `json:"user"`
	Home  auth.Route `json:"home"`
}

// Login is a demo identity switch: any name may sign in as any non-guest role.
func (g *Gateway) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, sess := g.sessions.Open()
	logger := g.logger.With(zap.String("session", token[:8]))
	unsubscribe := sess.Subscribe(func(u *auth.User) {
		if u == nil {
			logger.Info("signed out")
			return
		}
		logger.Info("signed in", zap.String("name", u.Name), zap.String("role", string(u.Role)))
	})

	user, err := sess.SignIn(req.Name, role)
	if err != nil {
		unsubscribe()
		g.sessions.Close(token)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user, Home: auth.HomeRoute(user.Role)})
}

func (g *Gateway) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" || !g.sessions.Close(token) {
		http.Error(w, "Unknown session", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.User{Role: auth.RoleGuest}
	if token := bearerToken(r); token != "" {
		sess, ok := g.sessions.Lookup(token)
		if !ok {
			http.Error(w, "Unknown session", http.StatusUnauthorized)
			return
		}
		user, _ = sess.User()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
		"home": auth.HomeRoute(user.Role),
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debug("proxy",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("target", targetURL),
	)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("failed to create upstream request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Del("Authorization")
	user := UserFrom(r.Context())
	req.Header.Set("X-User-Role", string(user.Role))
	if user.Name != "" {
		req.Header.Set("X-User-Name", user.Name)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("upstream unavailable", zap.String("target", targetURL), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil && !errors.Is(err, context.Canceled) {
		g.logger.Warn("failed to copy response", zap.Error(err))
	}
}

func (g *Gateway) upstreamFor(path string) (string, bool) {
	route, ok := auth.RouteForPath(path)
	if !ok {
		return "", false
	}
	switch route {
	case auth.RouteCatalog, auth.RouteCart, auth.RouteCheckout, auth.RouteOrders:
		return g.config.CartSvcURL, true
	case auth.RouteVendorDashboard, auth.RouteAdmin:
		return g.config.AggSvcURL, true
	default:
		return "", false
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := g.upstreamFor(r.URL.Path)
	if !ok {
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.HandleFunc("/api/auth/login", g.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", g.Logout).Methods("POST")
	r.HandleFunc("/api/auth/me", g.Me).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.Use(g.Guard)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
