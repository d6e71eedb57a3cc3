package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the REST API listens.
	Port string `mapstructure:"port" default:"8080"`
	// RealtimePort is the port where the websocket gateway listens.
	RealtimePort string `mapstructure:"realtime_port" default:"3001"`
	// AllowedOrigin is the browser origin accepted by the websocket gateway.
	// Empty or "*" accepts any origin.
	AllowedOrigin string `mapstructure:"allowed_origin" default:"http://localhost:3000"`
}

// AllowsOrigin reports whether a websocket handshake from origin may proceed.
// Requests without an Origin header (non-browser clients) are always accepted.
func (c Config) AllowsOrigin(origin string) bool {
	if origin == "" || c.AllowedOrigin == "" || c.AllowedOrigin == "*" {
		return true
	}
	return origin == c.AllowedOrigin
}
