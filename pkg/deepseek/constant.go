package deepseek

import "time"

const (
	// DefaultBaseURL is the default DeepSeek API endpoint
	DefaultBaseURL = "https://api.deepseek.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "deepseek-chat"

	// QwenBaseURL is Alibaba DashScope's OpenAI-compatible endpoint. Qwen speaks the same wire format.
	QwenBaseURL = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"

	// QwenModel is the default Qwen model
	QwenModel = "qwen-plus"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second

	roleSystem = "system"
	roleUser   = "user"
)
