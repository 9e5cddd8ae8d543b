package models

// Config holds application configuration
type Config struct {
	AutoStart bool `yaml:"auto_start"`

	// EventServiceURL is the base URL of the remote event store,
	// e.g. "http://10.10.91.219:8001".
	EventServiceURL string `yaml:"event_service_url"`

	// AssistantURL is the base URL of the conversational assistant,
	// e.g. "http://10.10.82.83:8000".
	AssistantURL string `yaml:"assistant_url"`

	// Greeting is the initial assistant message shown after a reset.
	Greeting string `yaml:"greeting"`

	// DefaultEventTime seeds the draft form's time field ("HH:MM").
	DefaultEventTime string `yaml:"default_event_time"`
}

// DefaultConfig returns an in-memory default configuration
func DefaultConfig() *Config {
	return &Config{
		EventServiceURL:  "http://localhost:8001",
		AssistantURL:     "http://localhost:8000",
		Greeting:         "Hey! Ask me to summarise your upcoming week or suggest a free slot.",
		DefaultEventTime: "09:00",
	}
}

// Normalize fills in missing values so partially-filled configs still
// behave correctly
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.EventServiceURL == "" {
		c.EventServiceURL = defaults.EventServiceURL
	}
	if c.AssistantURL == "" {
		c.AssistantURL = defaults.AssistantURL
	}
	if c.Greeting == "" {
		c.Greeting = defaults.Greeting
	}
	if c.DefaultEventTime == "" {
		c.DefaultEventTime = defaults.DefaultEventTime
	}
}
