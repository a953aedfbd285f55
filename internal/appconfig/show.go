package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Policy:            %s\n", cfg.PolicyFilePath())
	fmt.Fprintf(out, "  Output:            %s\n", cfg.OutputFilePath())
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Timeout:           %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Retries:           %d\n", cfg.RetryAttempts())
	fmt.Fprintf(out, "  Metrics:           %v\n", cfg.Metrics)
	if host, err := cfg.GenerationHost(); err == nil {
		fmt.Fprintf(out, "  LLM Host:          %s (%s, %s)\n", host.Name, NormalizeHostType(host.Type), host.URL)
	} else {
		fmt.Fprintf(out, "  LLM Host:          invalid: %v\n", err)
	}
	fmt.Fprintf(out, "  LLM Model:         %s\n", cfg.Model())
	fmt.Fprintf(out, "  Temperature:       %v\n", cfg.GenerationTemperature())
	fmt.Fprintf(out, "  Max Output Tokens: %d\n", cfg.MaxTokens())
	if host, err := cfg.EmbeddingHost(); err == nil {
		fmt.Fprintf(out, "  RAG Embedding Host:  %s (%s)\n", host.Name, NormalizeHostType(host.Type))
	} else {
		fmt.Fprintf(out, "  RAG Embedding Host:  invalid: %v\n", err)
	}
	fmt.Fprintf(out, "  RAG Embedding Model: %s\n", cfg.EmbeddingModel())
	fmt.Fprintf(out, "  RAG Chunk Size:      %d\n", cfg.ChunkSize())
	fmt.Fprintf(out, "  RAG Chunk Overlap:   %d\n", cfg.ChunkOverlap())
	fmt.Fprintf(out, "  RAG Separator:       %q\n", cfg.Separator())
	fmt.Fprintf(out, "  RAG Top K:           %d\n", cfg.TopK())
	if cfg.RagIndexPath != "" {
		fmt.Fprintf(out, "  RAG Index Path:      %s (reuse: %v)\n", cfg.RagIndexPath, cfg.RagReuseIndex)
	}
	if len(cfg.Booking.BookedSlots) > 0 {
		fmt.Fprintf(out, "  Booked Slots:      %v\n", cfg.Booking.BookedSlots)
	}
	if cfg.Redis.Enabled {
		fmt.Fprintf(out, "  Redis Cache:       %s db=%d ttl=%s\n", cfg.Redis.Addr, cfg.Redis.DB, cfg.CacheTTL())
	}
}
