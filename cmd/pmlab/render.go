package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	ds "productlab-workers/internal/workers/discovery/discovery-summarize"
	fs "productlab-workers/internal/workers/funnel/funnel-simulate"
	ip "productlab-workers/internal/workers/initiative/initiative-prioritize"
	ps "productlab-workers/internal/workers/persona/persona-select"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1f2937")).
			Padding(0, 1)
)

func (l *lab) print(w io.Writer, v interface{}) error {
	switch l.opts.output {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, renderText(v))
		return err
	}
}

func renderText(v interface{}) string {
	switch out := v.(type) {
	case dashboard:
		return lipgloss.JoinVertical(lipgloss.Left,
			renderPersona(out.Persona),
			"",
			renderFunnel(out.Funnel),
			"",
			renderBoard(out.Initiatives),
		)
	case *ps.Output:
		return renderPersona(out)
	case *ds.Summary:
		return renderSummary(out)
	case *fs.Output:
		return renderFunnel(out)
	case *ip.Output:
		return renderBoard(out)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func renderPersona(p *ps.Output) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.PersonaTitle))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render("(" + p.PersonaKey + ")"))
	b.WriteString("\n")

	section := func(name string, items []string) {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(name))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString("  \u2022 ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	}
	section("Jobs to be done", p.PersonaJobs)
	section("Pains", p.PersonaPains)
	section("Opportunities", p.PersonaOpportunities)
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderSummary(s *ds.Summary) string {
	return panelStyle.Render(titleStyle.Render("Discovery summary") + "\n\n" + s.Text)
}

func renderFunnel(f *fs.Output) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("", "Monthly revenue").
		Row("Baseline", f.BaselineRevenueFormatted).
		Row("With prioritised leads", f.ImprovedRevenueFormatted).
		Row("Extra revenue", f.ExtraRevenueFormatted)

	lines := []string{
		titleStyle.Render("Funnel simulation"),
		mutedStyle.Render(fmt.Sprintf("%s leads, %s%% \u2192 %s%% win rate, %s per deal",
			number(f.Inputs.Leads), number(f.Inputs.WinRate), number(f.Inputs.ImprovedWinRate), number(f.Inputs.DealValue))),
		t.String(),
	}
	if f.ChartPath != "" {
		lines = append(lines, "Chart: "+f.ChartPath)
	}
	return strings.Join(lines, "\n")
}

func renderBoard(o *ip.Output) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Initiative", "User value", "Business value", "Effort", "Score").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})
	for _, r := range o.Rows {
		t.Row(r.Name, plain(r.UserValue), plain(r.BusinessValue), plain(r.Effort), r.ScoreText)
	}

	heading := titleStyle.Render("Initiatives") + " " + mutedStyle.Render(fmt.Sprintf("(board %s, %s)", o.BoardID, o.Action))
	return heading + "\n" + t.String()
}

func number(v *float64) string {
	if v == nil {
		return "\u2013"
	}
	return plain(*v)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
