// internal/metrics/metrics_test.go
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/providers"
)

func TestUpdateRunningStat(t *testing.T) {
	var rs RunningStat
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		updateRunningStat(&rs, v)
	}
	if rs.Count != 8 || math.Abs(rs.Mean-5) > 1e-9 || rs.Min != 2 || rs.Max != 9 {
		t.Fatalf("unexpected stat %+v", rs)
	}
	// Sample variance of the series is 32/7.
	if got, want := rs.StdDev(), math.Sqrt(32.0/7.0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("StdDev = %v, want %v", got, want)
	}
}

func TestAggregatorRecordCountsErrors(t *testing.T) {
	agg := NewAggregator()
	agg.Record("gemini-1.5-flash", OperationGenerate, 120*time.Millisecond, 10, 5, nil)
	agg.Record("gemini-1.5-flash", OperationGenerate, 0, 0, 0, errors.New("boom"))
	agg.Record("text-embedding-004", OperationEmbed, 30*time.Millisecond, 3, 3, nil)

	snapshot := agg.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snapshot))
	}
	if snapshot[0].Operation != OperationEmbed || snapshot[1].Operation != OperationGenerate {
		t.Fatalf("unexpected ordering: %+v", snapshot)
	}
	gen := snapshot[1]
	if gen.Requests != 2 || gen.Errors != 1 || gen.DurationMillis.Count != 1 || gen.DurationMillis.Mean != 120 {
		t.Fatalf("unexpected generate metrics %+v", gen)
	}
	if !strings.Contains(agg.Summary(), "generate gemini-1.5-flash: requests=2 errors=1") {
		t.Fatalf("unexpected summary:\n%s", agg.Summary())
	}
}

func TestAggregatorSummaryEmpty(t *testing.T) {
	if got := NewAggregator().Summary(); got != "no model calls recorded" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestAggregatorSave(t *testing.T) {
	agg := NewAggregator()
	agg.Record("m", OperationGenerate, time.Millisecond, 1, 1, nil)
	path := filepath.Join(t.TempDir(), "reports", "metrics.json")
	if err := agg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded []ModelMetrics
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ModelName != "m" {
		t.Fatalf("unexpected saved metrics %+v", decoded)
	}
}

type fakeProvider struct {
	closed bool
}

func (f *fakeProvider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	if req.Prompt == "fail" {
		return providers.GenerateResponse{}, errors.New("failed")
	}
	return providers.GenerateResponse{Text: "ok", PromptTokens: 4, OutputTokens: 2}, nil
}

func (f *fakeProvider) Embed(ctx context.Context, host appconfig.Host, model string, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1}
	}
	return out, nil
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func TestProviderRecordsCalls(t *testing.T) {
	agg := NewAggregator()
	inner := &fakeProvider{}
	p := NewProvider(inner, agg)
	ctx := context.Background()

	if _, err := p.Generate(ctx, providers.GenerateRequest{Model: "g", Prompt: "hi"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := p.Generate(ctx, providers.GenerateRequest{Model: "g", Prompt: "fail"}); err == nil {
		t.Fatalf("expected error to pass through")
	}
	if _, err := p.Embed(ctx, appconfig.Host{}, "e", []string{"a", "b"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if err := p.Close(); err != nil || !inner.closed {
		t.Fatalf("Close not forwarded: %v", err)
	}

	snapshot := agg.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 entries, got %+v", snapshot)
	}
	if snapshot[0].ModelName != "e" || snapshot[0].InputTokens.Mean != 2 {
		t.Fatalf("unexpected embed entry %+v", snapshot[0])
	}
	if snapshot[1].Requests != 2 || snapshot[1].Errors != 1 || snapshot[1].OutputTokens.Mean != 2 {
		t.Fatalf("unexpected generate entry %+v", snapshot[1])
	}
}
