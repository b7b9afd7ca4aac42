package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the map browser. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	Graticule lipgloss.Color
	Pin       lipgloss.Color
	Cluster   lipgloss.Color
	Cursor    lipgloss.Color

	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	Label            lipgloss.Color
	ErrorText        lipgloss.Color
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("243"),
	Graticule:        lipgloss.Color("238"),
	Pin:              lipgloss.Color("203"),
	Cluster:          lipgloss.Color("214"),
	Cursor:           lipgloss.Color("39"),
	HeaderForeground: lipgloss.Color("230"),
	HeaderBackground: lipgloss.Color("24"),
	BorderColor:      lipgloss.Color("62"),
	HelpText:         lipgloss.Color("241"),
	Label:            lipgloss.Color("110"),
	ErrorText:        lipgloss.Color("203"),
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	graticule lipgloss.Style
	pin       lipgloss.Style
	cluster   lipgloss.Style
	cursor    lipgloss.Style
	header    lipgloss.Style
	help      lipgloss.Style
	faint     lipgloss.Style
	label     lipgloss.Style
	errorText lipgloss.Style
	box       lipgloss.Style
	title     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		graticule: lipgloss.NewStyle().Foreground(t.Graticule),
		pin:       lipgloss.NewStyle().Foreground(t.Pin).Bold(true),
		cluster:   lipgloss.NewStyle().Foreground(t.Cluster).Bold(true),
		cursor:    lipgloss.NewStyle().Foreground(t.Cursor).Reverse(true),
		header:    lipgloss.NewStyle().Foreground(t.HeaderForeground).Background(t.HeaderBackground).Bold(true),
		help:      lipgloss.NewStyle().Foreground(t.HelpText),
		faint:     lipgloss.NewStyle().Foreground(t.FaintText),
		label:     lipgloss.NewStyle().Foreground(t.Label).Bold(true),
		errorText: lipgloss.NewStyle().Foreground(t.ErrorText),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderColor).
			Foreground(t.NormalText).
			Padding(0, 1),
		title: lipgloss.NewStyle().Foreground(t.HeaderForeground).Bold(true),
	}
}
