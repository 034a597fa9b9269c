package cli

import (
	"testing"
	"time"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/spf13/cobra"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"contracts/vendor agreement.txt", "vendor_agreement"},
		{"/tmp/lease.html", "lease"},
		{"https://example.com/legal/terms?v=2", "example.com_legal_terms_v_2"},
		{"http://example.com/", "example.com"},
		{"???", "contract"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := sanitizeFilename(tt.source); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	used := make(map[string]int)

	got := []string{
		uniqueSlug("lease", used),
		uniqueSlug("lease", used),
		uniqueSlug("vendor", used),
		uniqueSlug("lease", used),
	}
	want := []string{"lease", "lease-2", "vendor", "lease-3"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slug %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnalysisFlags_OnlyChangedOverride(t *testing.T) {
	var opts analysisFlags
	cmd := &cobra.Command{Use: "test"}
	opts.register(cmd)

	if err := cmd.Flags().Parse([]string{"--llm-provider", "ollama", "--language", "hi", "--no-color", "--http-timeout", "5s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := model.DefaultConfig()
	cfg.LLM.Model = "from-config"
	opts.apply(cmd, cfg)

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.LLM.Provider)
	}
	if cfg.LLM.Language != "hi" {
		t.Errorf("language = %q, want hi", cfg.LLM.Language)
	}
	if cfg.LLM.Model != "from-config" {
		t.Errorf("unset flag overrode model: %q", cfg.LLM.Model)
	}
	if cfg.Output.Color {
		t.Error("expected color disabled")
	}
	if !cfg.Output.IncludeFooter {
		t.Error("footer should stay enabled")
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("http timeout = %v, want 5s", cfg.HTTP.Timeout)
	}
	if !cfg.HTTP.RespectRobots {
		t.Error("robots check should stay enabled")
	}
}
