package config

import "time"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// APIConfig contains StopReports API configuration
type APIConfig struct {
	BaseURL    string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS  int    `yaml:"timeoutMS" validate:"gte=0"`
	ChunkHours int    `yaml:"chunkHours" validate:"gte=0"`

	// SubscriptionKey is populated from the environment, never yaml.
	SubscriptionKey string `yaml:"-"`
}

// Timeout returns the HTTP client timeout.
func (c APIConfig) Timeout() time.Duration { return time.Duration(c.TimeoutMS) * time.Millisecond }

// ChunkWindow returns how much of a date range one request covers.
func (c APIConfig) ChunkWindow() time.Duration { return time.Duration(c.ChunkHours) * time.Hour }

// DetectionConfig contains the loop-detection parameters
type DetectionConfig struct {
	StartStop   string  `yaml:"startStop" validate:"required"`
	EndStop     string  `yaml:"endStop" validate:"required"`
	LoopMileage float64 `yaml:"loopMileage" validate:"gt=0"`

	// RouteLoop is the default route-loop name (e.g. BL) resolved via
	// the route mapping.
	RouteLoop string `yaml:"routeLoop"`

	// Direction restricts records before detection; empty disables the
	// filter. Loop routes report direction L.
	Direction string `yaml:"direction"`

	// ExtraStops are kept alongside the start/end stops when building
	// the pre-filter allowlist.
	ExtraStops []string `yaml:"extraStops"`
}

// ArchiveConfig contains the optional sqlite run archive settings
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server       ServerConfig      `yaml:"server" validate:"required"`
	API          APIConfig         `yaml:"api"`
	Detection    DetectionConfig   `yaml:"detection" validate:"required"`
	RouteMapping map[string]string `yaml:"routeMapping"`
	Archive      ArchiveConfig     `yaml:"archive"`
}

// RouteCode resolves a route-loop name (e.g. "BL") to its numeric route
// code. Unmapped values pass through so raw codes work too; an empty
// argument falls back to the configured default loop.
func (c AppConfig) RouteCode(loop string) string {
	if loop == "" {
		loop = c.Detection.RouteLoop
	}
	if code, ok := c.RouteMapping[loop]; ok {
		return code
	}
	return loop
}
