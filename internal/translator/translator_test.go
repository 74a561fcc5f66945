package translator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"deck-translator/internal/types"
)

type stubModel struct {
	reply string
	err   error
	calls [][]*schema.Message
}

func (s *stubModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	s.calls = append(s.calls, input)
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func newTestEngine(stub *stubModel) *Engine {
	return &Engine{
		model:      stub,
		sourceName: "English",
		targetName: "Chinese",
		target:     "zh",
		timeout:    5 * time.Second,
	}
}

func TestTranslate(t *testing.T) {
	stub := &stubModel{reply: "  你好  "}
	engine := newTestEngine(stub)

	got, err := engine.Translate(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "你好" {
		t.Errorf("Translate = %q, want trimmed reply", got)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("got %d model calls, want 1", len(stub.calls))
	}
	msgs := stub.calls[0]
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want system + user", len(msgs))
	}
	if msgs[0].Role != schema.System {
		t.Errorf("first message role = %v", msgs[0].Role)
	}
	for _, want := range []string{"English", "Chinese"} {
		if !strings.Contains(msgs[0].Content, want) {
			t.Errorf("system prompt missing %q: %s", want, msgs[0].Content)
		}
	}
	if msgs[1].Role != schema.User || msgs[1].Content != "Hello" {
		t.Errorf("user message = %+v", msgs[1])
	}
}

func TestTranslateModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	engine := newTestEngine(&stubModel{err: boom})

	_, err := engine.Translate(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T", err)
	}
	if appErr.Code != types.ErrTranslation {
		t.Errorf("code = %v, want %v", appErr.Code, types.ErrTranslation)
	}
	if !errors.Is(err, boom) {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestTranslateEmptyResponse(t *testing.T) {
	engine := newTestEngine(&stubModel{reply: "   "})

	_, err := engine.Translate(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error for empty model response")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrTranslation {
		t.Errorf("error = %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		engine := newTestEngine(&stubModel{reply: "ok"})
		if err := engine.TestConnection(context.Background()); err != nil {
			t.Errorf("TestConnection: %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		engine := newTestEngine(&stubModel{err: errors.New("connection refused")})
		err := engine.TestConnection(context.Background())
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrNetwork {
			t.Errorf("error = %v, want network error", err)
		}
	})
}

func TestNewEngineRequiresAPIKey(t *testing.T) {
	_, err := NewEngine(context.Background(), &types.Config{
		OpenAIModel: "gpt-4o",
		SourceLang:  "en",
		TargetLang:  "zh",
	})
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrConfig {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"zh", "Chinese"},
		{"ja", "Japanese"},
		{"not a code!", "not a code!"},
	}
	for _, tt := range tests {
		if got := languageName(tt.code); got != tt.want {
			t.Errorf("languageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		target string
		input  string
		want   string
	}{
		{"zh", "deck.pptx", "deck_zh.pptx"},
		{"zh-CN", "deck.pptx", "deck_zh.pptx"},
		{"ja", "slides/q3 review.pptx", "slides/q3 review_ja.pptx"},
		{"de", "noext", "noext_de"},
	}
	for _, tt := range tests {
		engine := &Engine{target: tt.target}
		if got := engine.DefaultOutputPath(tt.input); got != tt.want {
			t.Errorf("DefaultOutputPath(%q, target=%s) = %q, want %q", tt.input, tt.target, got, tt.want)
		}
	}
}
