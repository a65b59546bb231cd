package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/DeborahScali/travelapp-sub000/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return badRequest("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &requestError{status: http.StatusRequestEntityTooLarge, code: "body_too_large", message: "request body is too large"}
		case errors.Is(err, io.EOF):
			return badRequest("request body is required")
		default:
			return badRequest("malformed JSON body: %v", err)
		}
	}
	return nil
}

// userID returns the caller set by middleware.RequireUser.
func userID(r *http.Request) string {
	return middleware.UserID(r.Context())
}

// pathUUID binds a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, badRequest("invalid %s: must be a UUID", name)
	}
	return id, nil
}

// pathDate binds a YYYY-MM-DD path parameter.
func pathDate(r *http.Request, name string) (time.Time, error) {
	var d openapi_types.Date
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &d,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return time.Time{}, badRequest("invalid %s: want YYYY-MM-DD", name)
	}
	return d.Time, nil
}

// queryInt binds an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, badRequest("invalid %s: must be an integer", name)
	}
	return v, nil
}

// queryString binds an optional string query parameter.
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", badRequest("invalid %s", name)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// bindPathString binds a required string path parameter.
func bindPathString(r *http.Request, name string, dst *string) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return badRequest("invalid %s", name)
	}
	return nil
}
