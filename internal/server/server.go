// Package server is the development backend: it implements the LARPlaner
// REST surface over SQLite so the client and CLI have something real to talk
// to without the production deployment.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"larplaner/internal/repo"
	"larplaner/internal/wire"
)

// Config for the HTTP API handler.
type Config struct {
	Repo     repo.Repo
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"event not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the LARPlaner API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("LARPlaner API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := api
	if basePath != "" {
		group = huma.NewGroup(api, basePath)
	}

	registerHealth(group)
	registerEvents(group, cfg.Repo)
	registerRoles(group, cfg.Repo)
	registerScenarios(group, cfg.Repo)
	registerTags(group, cfg.Repo)
	registerGames(group, cfg.Repo)
	registerAdmin(group, cfg.Repo)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	if strings.Contains(lowered, "invalid") || strings.Contains(lowered, "required") || strings.Contains(lowered, "unknown") {
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func newID() string { return uuid.NewString() }

// userIDForEmail derives a stable user id from an email so repeated role
// assignments reuse the same user row.
func userIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

// resolveTags expands tag ids to the stored tag objects; unknown ids are a
// bad request, reported by handleError via the "unknown" message.
func resolveTags(ctx context.Context, r repo.Repo, ids []string) ([]wire.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := r.GetTags(ctx, ids)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errors.New("unknown tag id: " + err.Error())
		}
		return nil, err
	}
	return tags, nil
}

type IDPath struct {
	ID string `path:"id"`
}

// jsonBody wraps a raw JSON response so one handler can return either a
// single object or a list (bulk tag create).
type jsonBody struct {
	Body json.RawMessage `json:"body" contentType:"application/json"`
}

func rawJSON(v any) (*jsonBody, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, newAPIError(http.StatusInternalServerError, "internal_error", "encode response", nil)
	}
	return &jsonBody{Body: b}, nil
}
