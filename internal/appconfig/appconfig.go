// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultPolicyPath is the knowledge base loaded at startup.
	defaultPolicyPath = "policy.txt"
	// defaultOutputPath receives the question/answer transcript.
	defaultOutputPath = "output.txt"
	// defaultLLMModel is the generation model used when the config omits one.
	defaultLLMModel = "gemini-1.5-flash"
	// defaultEmbeddingModel is the embedding model used when the config omits one.
	defaultEmbeddingModel = "text-embedding-004"
	defaultTemperature    = 0.3
	defaultMaxTokens      = 150
	defaultChunkSize      = 100
	defaultChunkOverlap   = 20
	defaultSeparator      = "\n\n"
	defaultTopK           = 2
	defaultRetryCount     = 2
	// GeminiBaseURL is the Generative Language REST endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultHostName names the built-in Gemini host.
	DefaultHostName = "gemini"
)

// DefaultQuestions are answered by `ask` when neither questions nor questionsFile is configured.
var DefaultQuestions = []string{
	"How to book a meeting room?",
	"Can I book meeting room A at 10:00 AM tomorrow?",
	"Is 11:00 AM available?",
}

// Config represents the top-level application configuration.
type Config struct {
	Hosts           []Host   `json:"hosts" mapstructure:"hosts"`
	Debug           bool     `json:"debug" mapstructure:"debug"`
	LLMHost         string   `json:"llmHost,omitempty" mapstructure:"llmHost"`
	LLMModel        string   `json:"llmModel,omitempty" mapstructure:"llmModel"`
	Temperature     *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty" mapstructure:"maxOutputTokens"`
	PolicyPath      string   `json:"policy,omitempty" mapstructure:"policy"`
	OutputPath      string   `json:"output,omitempty" mapstructure:"output"`
	Questions       []string `json:"questions,omitempty" mapstructure:"questions"`
	QuestionsFile   string   `json:"questionsFile,omitempty" mapstructure:"questionsFile"`
	TimeoutSeconds  int      `json:"timeout,omitempty" mapstructure:"timeout"`
	RetryCount      int      `json:"retryCount,omitempty" mapstructure:"retryCount"`
	RequestsPerMin  int      `json:"requestsPerMinute,omitempty" mapstructure:"requestsPerMinute"`
	LogFile         string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Metrics         bool     `json:"metrics" mapstructure:"metrics"`
	MetricsPath     string   `json:"metricsPath,omitempty" mapstructure:"metricsPath"`
	ContinueOnError bool     `json:"continueOnError" mapstructure:"continueOnError"`

	RagEmbeddingHost     string `json:"ragEmbeddingHost,omitempty" mapstructure:"ragEmbeddingHost"`
	RagEmbeddingModel    string `json:"ragEmbeddingModel,omitempty" mapstructure:"ragEmbeddingModel"`
	RagChunkSize         int    `json:"ragChunkSize,omitempty" mapstructure:"ragChunkSize"`
	RagChunkOverlap      *int   `json:"ragChunkOverlap,omitempty" mapstructure:"ragChunkOverlap"`
	RagSeparator         string `json:"ragSeparator,omitempty" mapstructure:"ragSeparator"`
	RagTopK              int    `json:"ragTopK,omitempty" mapstructure:"ragTopK"`
	RagContextTokenLimit int    `json:"ragContextTokenLimit,omitempty" mapstructure:"ragContextTokenLimit"`
	RagIndexPath         string `json:"ragIndexPath,omitempty" mapstructure:"ragIndexPath"`
	RagReuseIndex        bool   `json:"ragReuseIndex" mapstructure:"ragReuseIndex"`

	Booking Booking `json:"booking" mapstructure:"booking"`
	Redis   Redis   `json:"redis" mapstructure:"redis"`

	ConfigPath string `json:"-" mapstructure:"-"`
}

// Host represents a single endpoint that can serve language or embedding models.
type Host struct {
	Name   string   `json:"name" mapstructure:"name"`
	URL    string   `json:"url" mapstructure:"url"`
	Type   string   `json:"type" mapstructure:"type"`
	Models []string `json:"models" mapstructure:"models"`
}

// Booking overrides the booked slots known to the conflict check.
type Booking struct {
	BookedSlots []string `json:"bookedSlots,omitempty" mapstructure:"bookedSlots"`
	Suggestion  string   `json:"suggestion,omitempty" mapstructure:"suggestion"`
}

// Redis configures the optional answer cache.
type Redis struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Addr       string `json:"addr,omitempty" mapstructure:"addr"`
	Password   string `json:"password,omitempty" mapstructure:"password"`
	DB         int    `json:"db,omitempty" mapstructure:"db"`
	TTLSeconds int    `json:"ttl,omitempty" mapstructure:"ttl"`
	KeyPrefix  string `json:"keyPrefix,omitempty" mapstructure:"keyPrefix"`
}

// DefaultHost returns the built-in Gemini host used when no hosts are configured.
func DefaultHost() Host {
	return Host{
		Name:   DefaultHostName,
		URL:    GeminiBaseURL,
		Type:   "gemini",
		Models: []string{defaultLLMModel, defaultEmbeddingModel},
	}
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryAttempts returns how many times a failed model request is retried.
func (c Config) RetryAttempts() int {
	if c.RetryCount < 0 {
		return 0
	}
	if c.RetryCount == 0 {
		return defaultRetryCount
	}
	return c.RetryCount
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "ragagent.log"
}

// PolicyFilePath returns the knowledge base path.
func (c Config) PolicyFilePath() string {
	if p := strings.TrimSpace(c.PolicyPath); p != "" {
		return p
	}
	return defaultPolicyPath
}

// OutputFilePath returns the transcript path.
func (c Config) OutputFilePath() string {
	if p := strings.TrimSpace(c.OutputPath); p != "" {
		return p
	}
	return defaultOutputPath
}

// Model returns the generation model name.
func (c Config) Model() string {
	if m := strings.TrimSpace(c.LLMModel); m != "" {
		return m
	}
	return defaultLLMModel
}

// EmbeddingModel returns the embedding model name.
func (c Config) EmbeddingModel() string {
	if m := strings.TrimSpace(c.RagEmbeddingModel); m != "" {
		return m
	}
	return defaultEmbeddingModel
}

// GenerationTemperature returns the sampling temperature sent with each generation request.
func (c Config) GenerationTemperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

// MaxTokens returns the output token cap for generation requests.
func (c Config) MaxTokens() int {
	if c.MaxOutputTokens <= 0 {
		return defaultMaxTokens
	}
	return c.MaxOutputTokens
}

// ChunkSize returns the splitter chunk size in characters.
func (c Config) ChunkSize() int {
	if c.RagChunkSize <= 0 {
		return defaultChunkSize
	}
	return c.RagChunkSize
}

// ChunkOverlap returns the splitter overlap in characters.
func (c Config) ChunkOverlap() int {
	if c.RagChunkOverlap == nil {
		return defaultChunkOverlap
	}
	return *c.RagChunkOverlap
}

// Separator returns the splitter separator.
func (c Config) Separator() string {
	if c.RagSeparator == "" {
		return defaultSeparator
	}
	return c.RagSeparator
}

// TopK returns how many chunks are retrieved per question.
func (c Config) TopK() int {
	if c.RagTopK <= 0 {
		return defaultTopK
	}
	return c.RagTopK
}

// CacheTTL returns the answer cache expiry.
func (c Config) CacheTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// QuestionList returns the inline questions or the built-in defaults.
// A configured questionsFile is resolved separately by ResolveQuestions.
func (c Config) QuestionList() []string {
	if len(c.Questions) > 0 {
		return c.Questions
	}
	return append([]string(nil), DefaultQuestions...)
}

// HostByName looks up a configured host. The built-in Gemini host is always available.
func (c Config) HostByName(name string) (Host, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultHostName
	}
	for _, host := range c.Hosts {
		if host.Name == name {
			return host, nil
		}
	}
	if name == DefaultHostName {
		return DefaultHost(), nil
	}
	return Host{}, fmt.Errorf("host %q not found in config hosts", name)
}

// GenerationHost returns the host that answers retrieval questions.
func (c Config) GenerationHost() (Host, error) {
	host, err := c.HostByName(c.LLMHost)
	if err != nil {
		return Host{}, fmt.Errorf("llmHost: %w", err)
	}
	return host, nil
}

// EmbeddingHost returns the host that embeds chunks and queries.
func (c Config) EmbeddingHost() (Host, error) {
	host, err := c.HostByName(c.RagEmbeddingHost)
	if err != nil {
		return Host{}, fmt.Errorf("ragEmbeddingHost: %w", err)
	}
	return host, nil
}

// NormalizeHostType folds host type aliases into their canonical name.
func NormalizeHostType(hostType string) string {
	normalized := strings.ToLower(strings.TrimSpace(hostType))
	switch normalized {
	case "", "gemini", "google", "googleai":
		return "gemini"
	case "ollama":
		return "ollama"
	default:
		return normalized
	}
}

// Validate checks the settings that would otherwise fail deep inside the pipeline.
func (c Config) Validate() error {
	if c.ChunkOverlap() < 0 {
		return fmt.Errorf("ragChunkOverlap must be zero or greater")
	}
	if c.ChunkOverlap() >= c.ChunkSize() {
		return fmt.Errorf("ragChunkOverlap (%d) must be smaller than ragChunkSize (%d)", c.ChunkOverlap(), c.ChunkSize())
	}
	if t := c.GenerationTemperature(); t < 0 || t > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", t)
	}
	for i, host := range c.Hosts {
		if strings.TrimSpace(host.Name) == "" {
			return fmt.Errorf("hosts[%d]: name is required", i)
		}
		if strings.TrimSpace(host.URL) == "" {
			return fmt.Errorf("host %q: url is required", host.Name)
		}
	}
	if _, err := c.GenerationHost(); err != nil {
		return err
	}
	if _, err := c.EmbeddingHost(); err != nil {
		return err
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled is true")
	}
	return nil
}
