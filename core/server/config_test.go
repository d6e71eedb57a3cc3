package server_test

import (
	"testing"

	"board-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_AllowsOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		origin  string
		want    bool
	}{
		{"Exact", "http://localhost:3000", "http://localhost:3000", true},
		{"Mismatch", "http://localhost:3000", "http://evil.example", false},
		{"NoOriginHeader", "http://localhost:3000", "", true},
		{"Wildcard", "*", "http://anything", true},
		{"Unset", "", "http://anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{AllowedOrigin: tt.allowed}
			assert.Equal(t, tt.want, c.AllowsOrigin(tt.origin))
		})
	}
}
