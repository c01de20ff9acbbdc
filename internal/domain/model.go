package domain

// ModelDefinition describes a generative backend declared in the config file.
// Each model represents a specific text-generation endpoint with its
// authentication and generation parameters. The two shipped defaults are
// functionally interchangeable: the router only cares that each one turns
// free text into validated tool calls.
type ModelDefinition struct {
	Name       string    `yaml:"name"`
	Endpoint   string    `yaml:"endpoint"`
	AuthEnvVar string    `yaml:"auth_env_var"`
	ModelID    string    `yaml:"model_id"`
	MaxTokens  int       `yaml:"max_tokens"`
	APIFormat  APIFormat `yaml:"api_format,omitempty"`
}

// APIFormat defines how to construct requests and parse responses for
// different provider APIs. All fields are optional with chat-completion
// compatible defaults.
type APIFormat struct {
	// AuthHeaderName specifies the HTTP header carrying the API key.
	// Default: "Authorization".
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the API key value. Default:
	// "Bearer " (with trailing space). Empty is valid for providers
	// using a bare key header.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// SystemMessageMode controls where the system prompt travels:
	// "inline" (default, in the messages array) or "separate"
	// (a dedicated top-level "system" field).
	SystemMessageMode string `yaml:"system_message_mode,omitempty"`

	// ContentWrapper controls message content formatting: "standard"
	// (default, plain string) or "anthropic" (typed content blocks).
	ContentWrapper string `yaml:"content_wrapper,omitempty"`

	// ResponseJSONPath locates the generated text in the reply.
	// Default: "choices[0].message.content".
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// ExtraHeaders are additional HTTP headers sent with each request.
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	SystemMessageModeInline   = "inline"
	SystemMessageModeSeparate = "separate"

	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	DefaultResponsePath = "choices[0].message.content"
)

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix. A customized
// header name with an empty prefix is treated as intentionally bare.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderName != "" && f.AuthHeaderPrefix == "" {
		return ""
	}
	if f.AuthHeaderPrefix == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetResponseJSONPath returns the JSON path for extracting reply content.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}

// IsSystemMessageSeparate reports whether the system prompt travels in a
// dedicated field.
func (f APIFormat) IsSystemMessageSeparate() bool {
	return f.SystemMessageMode == SystemMessageModeSeparate
}

// IsContentWrapped reports whether message content uses typed content blocks.
func (f APIFormat) IsContentWrapped() bool {
	return f.ContentWrapper == ContentWrapperAnthropic
}
