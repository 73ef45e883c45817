package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestCallerID(t *testing.T) {
	tests := []struct {
		name     string
		ctxValue interface{}
		fallback int
		want     int
	}{
		{name: "authenticated id wins", ctxValue: 7, fallback: 42, want: 7},
		{name: "no context value", ctxValue: nil, fallback: 42, want: 42},
		{name: "zero id falls back", ctxValue: 0, fallback: 42, want: 42},
		{name: "wrong type falls back", ctxValue: "7", fallback: 42, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.ctxValue != nil {
				r = r.WithContext(context.WithValue(r.Context(), "user_id", tt.ctxValue))
			}
			if got := callerID(r, tt.fallback); got != tt.want {
				t.Fatalf("callerID() = %d, want %d", got, tt.want)
			}
		})
	}
}
