package handlers

import (
	"errors"
	"net/http"
	"strconv"
)

// pathID reads a pat-style path parameter and parses it as a positive id.
func pathID(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// callerID returns the authenticated user id set by the JWT middleware,
// falling back to the id the client supplied when the context has none.
func callerID(r *http.Request, fallback int) int {
	if id, ok := r.Context().Value("user_id").(int); ok && id > 0 {
		return id
	}
	return fallback
}

// queryInt reads an optional integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
