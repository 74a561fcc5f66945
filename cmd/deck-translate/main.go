// Command deck-translate rewrites a PPTX file with translated text while
// preserving formatting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"deck-translator/internal/config"
	"deck-translator/internal/logger"
	"deck-translator/internal/pptx"
	"deck-translator/internal/rewrite"
	"deck-translator/internal/translator"
)

func main() {
	output := flag.String("o", "", "output PPTX path (default: input with language suffix)")
	flag.StringVar(output, "output", "", "output PPTX path (default: input with language suffix)")
	source := flag.String("source", "", "source language code (default from config)")
	target := flag.String("target", "", "target language code (default from config)")
	model := flag.String("model", "", "chat model name (default from config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deck-translate [options] <input.pptx>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	if err := logger.Init(logger.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logger initialization failed: %v\n", err)
	}
	defer logger.Close()

	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: input file not found: %s\n", input)
		os.Exit(1)
	}

	mgr, err := config.NewManager("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := mgr.GetConfig()
	cfg.OpenAIAPIKey = mgr.GetAPIKey()
	cfg.OpenAIBaseURL = mgr.GetBaseURL()
	cfg.OpenAIModel = mgr.GetModel()
	if *model != "" {
		cfg.OpenAIModel = *model
	}
	if *source != "" {
		cfg.SourceLang = *source
	}
	if *target != "" {
		cfg.TargetLang = *target
	}

	if cfg.OpenAIAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OpenAI API key not configured")
		fmt.Fprintf(os.Stderr, "Set %s or add it to %s\n", config.EnvOpenAIAPIKey, mgr.GetConfigPath())
		os.Exit(1)
	}

	ctx := context.Background()
	engine, err := translator.NewEngine(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := engine.TestConnection(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = engine.DefaultOutputPath(input)
	}

	logger.Info("translating presentation",
		logger.String("input", input),
		logger.String("output", outPath),
		logger.String("model", cfg.OpenAIModel),
		logger.String("source", cfg.SourceLang),
		logger.String("target", cfg.TargetLang))

	doc, err := pptx.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := rewrite.Document(doc, func(text string) (string, error) {
		return engine.Translate(ctx, text)
	})

	if err := doc.Save(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Translated %d strings, wrote %s\n", report.Translated, outPath)
	if len(report.Warnings) > 0 {
		fmt.Printf("Warning: %d strings kept their original text:\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Printf("  %q: %v\n", truncate(w.Text, 60), w.Err)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
