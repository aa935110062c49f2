package config

import "time"

// ClassifierConfig selects the text-classifier provider
type ClassifierConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// IntelConfig represents the external threat-intelligence configuration
type IntelConfig struct {
	SafeBrowsingAPIKey string
	PhishTankAppKey    string
	CheckTimeout       time.Duration
	WhoisEnabled       bool
	CertCheckEnabled   bool
}

// HistoryConfig represents the sender-history backend configuration
type HistoryConfig struct {
	Type          string
	SQLitePath    string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

// ServerConfig represents the SMTP intake daemon configuration
type ServerConfig struct {
	ListenAddress string
	BlockPhishing bool
	RelayAddress  string
	StatusHeader  string
	ScoreHeader   string
	ReasonHeader  string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider: c.GetString("classifier.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetIntel returns the external threat-intelligence configuration
func (c *Config) GetIntel() IntelConfig {
	timeout, err := c.GetDuration("intel.check_timeout")
	if err != nil {
		timeout = 2 * time.Second
	}
	return IntelConfig{
		SafeBrowsingAPIKey: c.GetString("intel.safebrowsing_api_key"),
		PhishTankAppKey:    c.GetString("intel.phishtank_app_key"),
		CheckTimeout:       timeout,
		WhoisEnabled:       c.GetBool("intel.whois_enabled"),
		CertCheckEnabled:   c.GetBool("intel.cert_check_enabled"),
	}
}

// GetHistory returns the sender-history backend configuration
func (c *Config) GetHistory() HistoryConfig {
	ttl, err := c.GetDuration("history.redis_ttl")
	if err != nil {
		ttl = 0
	}
	return HistoryConfig{
		Type:          c.GetString("history.type"),
		SQLitePath:    c.GetString("history.sqlite_path"),
		MySQLDSN:      c.GetString("history.mysql_dsn"),
		RedisAddr:     c.GetString("history.redis_addr"),
		RedisPassword: c.GetString("history.redis_password"),
		RedisDB:       c.GetInt("history.redis_db"),
		RedisTTL:      ttl,
	}
}

// GetServer returns the SMTP intake daemon configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		BlockPhishing: c.GetBool("server.block_phishing"),
		RelayAddress:  c.GetString("server.relay_address"),
		StatusHeader:  c.GetString("server.headers.status"),
		ScoreHeader:   c.GetString("server.headers.score"),
		ReasonHeader:  c.GetString("server.headers.reason"),
	}
}
