package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	keywordStyle = lipgloss.NewStyle().Bold(true)
	docStyle     = lipgloss.NewStyle().Faint(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, delStyle.Render("del")+"  "+path)
}

// ErrLine reports a file that could not be parsed.
func ErrLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+"  "+err.Error())
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

// ListRow prints one catalogued example. Widths pad the id, file and name
// columns so tags line up.
func ListRow(w io.Writer, id int64, fileName, name string, tags []string, idWidth, fileWidth, nameWidth int) {
	idText := fmt.Sprintf("#%d", id)
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		idStyle.Render(idText)+strings.Repeat(" ", max(idWidth-len(idText), 0)),
		pad(fileName, fileWidth),
		pad(name, nameWidth),
		tagStyle.Render(Tags(tags)),
	)
}

// Tags renders tags the way they are written in a feature file.
func Tags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "@" + t
	}
	return strings.Join(out, " ")
}

func ShowHeader(w io.Writer, id int64, fileName string, line int) {
	fmt.Fprintf(w, "%s  %s:%d\n", idStyle.Render(fmt.Sprintf("#%d", id)), fileName, line)
}

func ShowTags(w io.Writer, indent int, tags []string) {
	if len(tags) == 0 {
		return
	}
	fmt.Fprintln(w, strings.Repeat(" ", indent)+tagStyle.Render(Tags(tags)))
}

// ShowTitle prints a block line such as "Scenario: x" with everything up to
// the colon in bold.
func ShowTitle(w io.Writer, indent int, text string) {
	keyword, rest := text, ""
	if i := strings.Index(text, ":"); i >= 0 {
		keyword, rest = text[:i+1], text[i+1:]
	}
	fmt.Fprintln(w, strings.Repeat(" ", indent)+keywordStyle.Render(keyword)+rest)
}

// ShowStep prints a step line with its first word in bold.
func ShowStep(w io.Writer, indent int, text string) {
	keyword, rest := text, ""
	if i := strings.Index(text, " "); i >= 0 {
		keyword, rest = text[:i], text[i:]
	}
	fmt.Fprintln(w, strings.Repeat(" ", indent)+keywordStyle.Render(keyword)+rest)
}

func ShowDocString(w io.Writer, indent int, content string) {
	prefix := strings.Repeat(" ", indent)
	fmt.Fprintln(w, prefix+docStyle.Render(`"""`))
	for _, l := range strings.Split(content, "\n") {
		fmt.Fprintln(w, prefix+l)
	}
	fmt.Fprintln(w, prefix+docStyle.Render(`"""`))
}

// ShowTable prints rows with every column padded to its widest cell.
func ShowTable(w io.Writer, indent int, rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	prefix := strings.Repeat(" ", indent)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(w, prefix+"| "+strings.Join(cells, " | ")+" |")
	}
}

// BoundLine reports a step that matched exactly one definition.
func BoundLine(w io.Writer, text string, values map[string]string) {
	line := newStyle.Render("ok") + "    " + text
	if len(values) > 0 {
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = fmt.Sprintf("%s=%q", name, values[name])
		}
		line += "  " + trkStyle.Render(strings.Join(pairs, " "))
	}
	fmt.Fprintln(w, line)
}

// UnboundLine reports a step with no definition ("miss") or several ("ambi").
func UnboundLine(w io.Writer, status, text string) {
	fmt.Fprintln(w, errStyle.Render(status)+strings.Repeat(" ", max(4-len(status), 0))+"  "+text)
}

func MatchSummary(w io.Writer, bound, unbound int) {
	fmt.Fprintf(w, "%d bound, %d unbound\n", bound, unbound)
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
