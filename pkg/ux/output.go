// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the Causeway CLI.
package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Causeway color palette - basalt greys with signal accents
var (
	ColorAccent  = lipgloss.Color("#7C6FF0") // Indigo - brand, titles
	ColorLink    = lipgloss.Color("#4FB8E8") // Sky - relationships, arrows
	ColorSuccess = lipgloss.Color("#3DDC97") // Green - success
	ColorWarning = lipgloss.Color("#F4D03F") // Amber - warnings, fallback paths
	ColorError   = lipgloss.Color("#E74C3C") // Red - errors
	ColorMuted   = lipgloss.Color("#5C6773") // Grey - muted text, units
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorLink),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1),
}

// Title renders a section title.
func Title(text string) string {
	return Styles.Title.Render(text)
}

// Successf renders a green checkmark line.
func Successf(format string, args ...any) string {
	return Styles.Success.Render("✓ ") + fmt.Sprintf(format, args...)
}

// Warnf renders an amber warning line.
func Warnf(format string, args ...any) string {
	return Styles.Warning.Render("⚠ ") + fmt.Sprintf(format, args...)
}

// Errorf renders a red error line.
func Errorf(format string, args ...any) string {
	return Styles.Error.Render("✗ ") + fmt.Sprintf(format, args...)
}

// KeyValue renders an aligned "key: value" pair with a muted key.
func KeyValue(key string, value any) string {
	return fmt.Sprintf("%s %v", Styles.Muted.Render(key+":"), value)
}

// Edge renders a causal edge as "source -> target (type)", coloring the
// arrow by relationship direction.
func Edge(source, target, relType string) string {
	arrow := Styles.Subtitle.Render("→")
	if relType == "inverse" {
		arrow = Styles.Warning.Render("⇥")
	}
	return fmt.Sprintf("%s %s %s %s", source, arrow, target,
		Styles.Muted.Render("("+relType+")"))
}

// Bullets renders items as an indented bullet list.
func Bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("  ")
		b.WriteString(Styles.Subtitle.Render("•"))
		b.WriteString(" ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
