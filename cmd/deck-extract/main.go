// Command deck-extract pulls translatable strings out of a PPTX file into a
// JSON report.
package main

import (
	"flag"
	"fmt"
	"os"

	"deck-translator/internal/extract"
	"deck-translator/internal/logger"
	"deck-translator/internal/pptx"
)

func main() {
	output := flag.String("o", "extracted.json", "output JSON path")
	flag.StringVar(output, "output", "extracted.json", "output JSON path")
	// Deduplication always runs; the flag is kept for script compatibility.
	flag.Bool("dedupe", false, "deduplicate extracted strings (always on)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deck-extract [options] <input.pptx>\n\nOptions:\n")
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

	logger.Info("extracting presentation text",
		logger.String("input", input),
		logger.String("output", *output))

	doc, err := pptx.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	record := extract.Extract(doc)
	if err := record.WriteJSON(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d candidate strings to %s\n", len(record.Strings), *output)
}
