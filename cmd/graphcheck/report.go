// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sigil-dev/graphcheck/internal/conformance"
)

// --- lipgloss styles ---

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	nameStyle  = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// renderReport formats one box per target. At most maxFailures failed
// assertion messages are listed per target.
func renderReport(runs []*targetRun, maxFailures int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(conformance.TestCaseName))
	b.WriteString("\n")

	for _, r := range runs {
		b.WriteString(boxStyle.Render(renderTarget(r, maxFailures)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTarget(r *targetRun, maxFailures int) string {
	var lines []string

	status := passStyle.Render("PASS")
	if !r.passed() {
		status = failStyle.Render("FAIL")
	}
	header := fmt.Sprintf("%s %s %s", status, nameStyle.Render(r.Name), dimStyle.Render("("+backendLabel(r.Backend)+")"))
	lines = append(lines, header)

	if r.err != nil {
		lines = append(lines, failStyle.Render("error: ")+r.Error)
	}

	res := r.Results
	if res == nil {
		return strings.Join(lines, "\n")
	}

	passed, failed := res.Counts()
	lines = append(lines,
		fmt.Sprintf("reference graph: %d nodes, %d edges", res.NodeCount, res.EdgeCount),
		fmt.Sprintf("assertions: %d passed, %d failed %s", passed, failed, dimStyle.Render(r.Duration.Round(time.Millisecond).String())),
	)

	for _, f := range conformance.Families {
		c, ok := res.Capability(f)
		label := dimStyle.Render("not observed")
		if ok {
			label = string(c)
		}
		lines = append(lines, fmt.Sprintf("%s (%s): %s", conformance.DiscoveredProperty, f, label))
	}

	if res.SuccessMessage != "" {
		lines = append(lines, passStyle.Render(res.SuccessMessage))
	}

	for _, c := range res.FailuresByID() {
		lines = append(lines, failStyle.Render(fmt.Sprintf("%s x%d", c.ID, c.Count)))
	}
	for i, a := range res.Failed() {
		if i >= maxFailures {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more", failed-maxFailures)))
			break
		}
		lines = append(lines, "  "+a.Message)
	}

	return strings.Join(lines, "\n")
}

func backendLabel(backend string) string {
	if backend == "" {
		return "sqlite"
	}
	return backend
}
