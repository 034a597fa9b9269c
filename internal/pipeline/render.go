package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/clauseguard/internal/extract"
	"github.com/ppiankov/clauseguard/internal/model"
)

// Disclaimer is appended to rendered reports when the footer is enabled
const Disclaimer = "Heuristic analysis, not legal advice. Have a qualified lawyer review any contract before signing."

// Theme is the terminal colour palette
type Theme struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Low     lipgloss.Color
	Medium  lipgloss.Color
	High    lipgloss.Color
}

// DefaultTheme returns the default terminal palette
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#7C3AED"),
		Muted:   lipgloss.Color("#6C7086"),
		Low:     lipgloss.Color("#A6E3A1"),
		Medium:  lipgloss.Color("#F9E2AF"),
		High:    lipgloss.Color("#F38BA8"),
	}
}

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	levels map[model.RiskLevel]lipgloss.Style
}

func newStyles(w io.Writer, theme Theme, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, label: plain, muted: plain, levels: map[model.RiskLevel]lipgloss.Style{}}
	}

	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(theme.Primary),
		label: r.NewStyle().Bold(true),
		muted: r.NewStyle().Foreground(theme.Muted),
		levels: map[model.RiskLevel]lipgloss.Style{
			model.RiskLow:    r.NewStyle().Bold(true).Foreground(theme.Low),
			model.RiskMedium: r.NewStyle().Bold(true).Foreground(theme.Medium),
			model.RiskHigh:   r.NewStyle().Bold(true).Foreground(theme.High),
		},
	}
}

func (s styles) level(l model.RiskLevel) string {
	text := strings.ToUpper(string(l))
	if st, ok := s.levels[l]; ok {
		return st.Render(text)
	}
	return text
}

// Renderer writes analyses as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
	color         bool
	theme         Theme
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter, color bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		color:         color,
		theme:         DefaultTheme(),
	}
}

// RenderJSON writes the analysis as indented JSON to path
func (r *Renderer) RenderJSON(a *model.Analysis, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, a) })
}

// WriteJSON writes the analysis as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, a *model.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return nil
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(a *model.Analysis, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, a) })
}

// WriteMarkdown writes the Markdown report. Generated text is left out; see
// WriteLLMMarkdown.
func (r *Renderer) WriteMarkdown(w io.Writer, a *model.Analysis) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Contract Analysis: %s\n\n", a.Source)
	fmt.Fprintf(&b, "- **Document ID:** %s\n", a.DocID)
	fmt.Fprintf(&b, "- **Contract type:** %s\n", a.ContractType)
	fmt.Fprintf(&b, "- **Analyzed at:** %s\n", a.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Overall risk:** %s (average %.2f, total %d across %d clauses)\n\n",
		strings.ToUpper(string(a.Risk.Level)), a.Risk.AvgScore, a.Risk.TotalScore, len(a.Clauses))

	b.WriteString("## Risk Flags\n\n")
	flags := sortedKeys(a.Risk.FlagCounts)
	if len(flags) == 0 {
		b.WriteString("No risk flags raised.\n\n")
	} else {
		b.WriteString("| Flag | Clauses |\n|------|---------|\n")
		for _, f := range flags {
			fmt.Fprintf(&b, "| %s | %d |\n", f, a.Risk.FlagCounts[f])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Clauses\n\n")
	for _, c := range a.Clauses {
		fmt.Fprintf(&b, "### %s. %s\n\n", c.ID, c.Heading)
		fmt.Fprintf(&b, "- **Risk:** %s (score %d)\n", strings.ToUpper(string(c.Risk.Level)), c.Risk.Score)
		if raised := raisedFlags(c.Risk.Flags); len(raised) > 0 {
			fmt.Fprintf(&b, "- **Flags:** %s\n", strings.Join(raised, ", "))
		}
		if c.Ambiguity.Ambiguous {
			fmt.Fprintf(&b, "- **Ambiguous wording:** %s\n", strings.Join(c.Ambiguity.Phrases, ", "))
		}
		if c.Template.TemplateName != "" {
			fmt.Fprintf(&b, "- **Closest template:** %s (similarity %.2f)\n", c.Template.TemplateName, c.Template.Similarity)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Key Terms\n\n")
	dims := []struct {
		name   string
		values []string
	}{
		{"Parties", a.Dimensions.Parties},
		{"Amounts", a.Dimensions.Amounts},
		{"Dates", a.Dimensions.Dates},
		{"Jurisdiction", a.Dimensions.Jurisdiction},
		{"Governing law", a.Dimensions.GoverningLaw},
		{"IP rights", a.Dimensions.IPRights},
		{"Confidentiality", a.Dimensions.Confidentiality},
	}
	for _, d := range dims {
		value := "none found"
		if len(d.values) > 0 {
			value = strings.Join(d.values, "; ")
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", d.name, value)
	}
	b.WriteString("\n")

	counts := extract.CountRoles(a.Roles)
	b.WriteString("## Obligations and Rights\n\n")
	fmt.Fprintf(&b, "- Obligations: %d\n- Rights: %d\n- Prohibitions: %d\n\n",
		counts[model.RoleObligation], counts[model.RoleRight], counts[model.RoleProhibition])
	for _, s := range a.Roles {
		fmt.Fprintf(&b, "- *%s*: %s\n", s.Role, s.Sentence)
	}
	if len(a.Roles) > 0 {
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*" + Disclaimer + "*\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderLLMMarkdown writes generated explanations to path
func (r *Renderer) RenderLLMMarkdown(a *model.Analysis, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteLLMMarkdown(w, a) })
}

// WriteLLMMarkdown writes the contract summary, clause explanations and
// suggested alternatives. Nothing here feeds back into scores.
func (r *Renderer) WriteLLMMarkdown(w io.Writer, a *model.Analysis) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Plain-Language Notes: %s\n\n", a.Source)
	if a.LLM != nil {
		if a.LLM.Enabled {
			fmt.Fprintf(&b, "*Generated by %s", a.LLM.Provider)
			if a.LLM.Model != "" {
				fmt.Fprintf(&b, " (%s)", a.LLM.Model)
			}
			b.WriteString(". Does not affect risk scores.*\n\n")
		} else {
			b.WriteString("*No LLM configured. Standard guidance shown.*\n\n")
		}
		if a.LLM.Summary != "" {
			b.WriteString("## Summary\n\n" + a.LLM.Summary + "\n\n")
		}
	}

	for _, c := range a.Clauses {
		if c.Explanation == "" && c.Alternative == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s. %s\n\n", c.ID, c.Heading)
		if c.Explanation != "" {
			b.WriteString(c.Explanation + "\n\n")
		}
		if c.Alternative != "" {
			b.WriteString("**Suggested alternative:**\n\n> " + strings.ReplaceAll(c.Alternative, "\n", "\n> ") + "\n\n")
		}
	}

	if a.LLM != nil && len(a.LLM.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warn := range a.LLM.Warnings {
			b.WriteString("- " + warn + "\n")
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n*" + Disclaimer + "*\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, a *model.Analysis) {
	s := newStyles(w, r.theme, r.color)

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Contract: "+a.Source))
	fmt.Fprintf(w, "%s %s\n", s.label.Render("Type:"), a.ContractType)
	fmt.Fprintf(w, "%s %s (average %.2f over %d clauses)\n",
		s.label.Render("Risk:"), s.level(a.Risk.Level), a.Risk.AvgScore, len(a.Clauses))

	for _, c := range a.Clauses {
		line := fmt.Sprintf("  %-4s %-7s %s", c.ID, strings.ToUpper(string(c.Risk.Level)), c.Heading)
		if raised := raisedFlags(c.Risk.Flags); len(raised) > 0 {
			line += " " + s.muted.Render("["+strings.Join(raised, ", ")+"]")
		}
		if st, ok := s.levels[c.Risk.Level]; ok && c.Risk.Level == model.RiskHigh {
			line = st.Render(line)
		}
		fmt.Fprintln(w, line)
	}

	ambiguous := 0
	for _, amb := range a.Ambiguity {
		if amb.Ambiguous {
			ambiguous++
		}
	}
	if ambiguous > 0 {
		fmt.Fprintf(w, "%s %d clause(s) use vague wording\n", s.label.Render("Ambiguity:"), ambiguous)
	}

	if a.LLM != nil && a.LLM.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.LLM.Summary)
	}

	if r.includeFooter {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.muted.Render(Disclaimer))
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func raisedFlags(set model.RiskFlagSet) []string {
	var out []string
	for name, raised := range set {
		if raised {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
