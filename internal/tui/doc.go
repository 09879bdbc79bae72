// Package tui renders rankings for the terminal: a lipgloss table, a text top
// view, and a bubbletea model that lets the user walk the ranking.
package tui
