package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// printHistogram renders a counts histogram the way the teacher's
// cmd/cli/main.go pretty() function does (sorted keys, count and
// percentage per line), dressed with lipgloss styling instead of a bare
// fmt.Printf table.
func printHistogram(title string, counts map[string]uint64, shotsExecuted uint32) {
	fmt.Println(titleStyle.Render(title))
	if shotsExecuted == 0 {
		fmt.Println("  (no shots executed)")
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, state := range keys {
		count := counts[state]
		pct := float64(count) / float64(shotsExecuted) * 100
		bar := barStyle.Render(strings.Repeat("#", int(pct/2)))
		fmt.Printf("  %s: %6d  (%5.2f%%) %s\n", stateStyle.Render("|"+state+"⟩"), count, pct, bar)
	}
}

func printError(err error) {
	fmt.Println(errStyle.Render("error: " + err.Error()))
}
