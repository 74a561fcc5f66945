// Package types defines core data types and enums for the deck translator application.
package types

// Config 应用配置
type Config struct {
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIBaseURL  string `json:"openai_base_url"` // OpenAI 兼容 API 的 Base URL
	OpenAIModel    string `json:"openai_model"`
	SourceLang     string `json:"source_lang"`             // 源语言 BCP 47 代码
	TargetLang     string `json:"target_lang"`             // 目标语言 BCP 47 代码
	RequestTimeout int    `json:"request_timeout_seconds"` // 单次翻译请求超时（秒）
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrNetwork      ErrorCode = "NETWORK_ERROR"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrDocument     ErrorCode = "DOCUMENT_ERROR"
	ErrSave         ErrorCode = "SAVE_ERROR"
	ErrAPICall      ErrorCode = "API_CALL_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
