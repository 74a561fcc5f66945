// Package translator provides presentation text translation through an
// OpenAI-compatible chat model.
package translator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"deck-translator/internal/logger"
	"deck-translator/internal/types"
)

// chatModel is the slice of the chat model surface the engine needs.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Engine translates individual strings for a fixed source→target language
// pair. Strings are translated one at a time, in the order the caller
// supplies them; there is no batching and no retrying.
type Engine struct {
	model      chatModel
	sourceName string
	targetName string
	target     string
	timeout    time.Duration
}

// NewEngine builds an engine from the application configuration.
func NewEngine(ctx context.Context, cfg *types.Config) (*Engine, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "API key is not configured", nil)
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  cfg.OpenAIModel,
		APIKey: cfg.OpenAIAPIKey,
	}
	if cfg.OpenAIBaseURL != "" {
		chatModelConfig.BaseURL = cfg.OpenAIBaseURL
	}

	cm, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, types.NewAppError(types.ErrAPICall, "failed to create chat model", err)
	}

	return &Engine{
		model:      cm,
		sourceName: languageName(cfg.SourceLang),
		targetName: languageName(cfg.TargetLang),
		target:     cfg.TargetLang,
		timeout:    time.Duration(cfg.RequestTimeout) * time.Second,
	}, nil
}

// languageName resolves a BCP 47 code to its English display name for use in
// prompts. Unparsable codes are used verbatim.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// Translate translates one string. The returned text is the model output
// with surrounding whitespace stripped; an empty model response is an error
// so the caller can keep the original text.
func (e *Engine) Translate(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	system := fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Output only the translated text, with no explanations, no quotes, and no extra formatting. "+
			"If the text contains no translatable content, return it unchanged.",
		e.sourceName, e.targetName)

	resp, err := e.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(text),
	})
	if err != nil {
		return "", types.NewAppErrorWithDetails(types.ErrTranslation, "translation request failed", text, err)
	}

	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", types.NewAppErrorWithDetails(types.ErrTranslation, "empty translation response", text, nil)
	}

	logger.Debug("translated string",
		logger.String("source", text),
		logger.String("result", out))
	return out, nil
}

// TestConnection verifies the configured model is reachable before any
// document work starts. It asks for a one-word reply to keep token usage
// minimal.
func (e *Engine) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger.Info("testing API connection")
	_, err := e.model.Generate(ctx, []*schema.Message{
		schema.UserMessage("Reply with only the word 'ok', nothing else."),
	})
	if err != nil {
		return types.NewAppError(types.ErrNetwork, "API connection test failed", err)
	}
	return nil
}

// OutputSuffix returns the filename marker for the engine's target language,
// e.g. "_zh" for Chinese.
func (e *Engine) OutputSuffix() string {
	code := e.target
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		code = base.String()
	}
	return "_" + code
}

// DefaultOutputPath derives the translated document path from the input path
// by inserting the language suffix before the extension.
func (e *Engine) DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + e.OutputSuffix() + ext
}
