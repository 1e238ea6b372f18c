package waterloo

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171"))
)

// Report is the aggregated outcome of one Annotate run.
type Report struct {
	Files []FileReport
}

// Annotated counts functions that received a type comment, across all files.
func (r *Report) Annotated() int {
	n := 0
	for i := range r.Files {
		n += r.Files[i].Annotated()
	}
	return n
}

// Failures counts functions skipped with an error, across all files.
func (r *Report) Failures() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Failed())
	}
	return n
}

// Changed counts files whose content was modified.
func (r *Report) Changed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Changed {
			n++
		}
	}
	return n
}

// Print writes a styled summary of the run. With showDiff, changed files
// also get a line diff of old versus new content.
func (r *Report) Print(w io.Writer, showDiff bool) {
	for i := range r.Files {
		f := &r.Files[i]
		if f.Err != nil {
			fmt.Fprintf(w, "%s %s\n", pathStyle.Render(f.Path), errorStyle.Render(f.Err.Error()))
			continue
		}
		if !f.Changed && len(f.Failed()) == 0 {
			continue
		}
		fmt.Fprintln(w, pathStyle.Render(f.Path))
		for _, fn := range f.Functions {
			switch fn.Status {
			case FuncAnnotated:
				fmt.Fprintf(w, "  %s %s:%d\n", okStyle.Render("annotated"), fn.Name, fn.Line)
			case FuncFailed:
				fmt.Fprintf(w, "  %s %s:%d %s\n",
					warnStyle.Render("skipped"), fn.Name, fn.Line, dimStyle.Render(fn.Err.Error()))
			}
		}
		for _, imp := range f.Imports {
			fmt.Fprintf(w, "  %s %s\n", okStyle.Render("import"), imp)
		}
		if showDiff && f.Changed {
			printDiff(w, f.Original, f.Content)
		}
	}

	fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf(
		"%d files (%d changed), %d functions annotated, %d skipped",
		len(r.Files), r.Changed(), r.Annotated(), r.Failures())))
}

// printDiff shows the changed region of a file as a single hunk: the common
// prefix and suffix lines are trimmed and the differing middle is printed
// with -/+ markers.
func printDiff(w io.Writer, before, after string) {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")

	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  @@ line %d @@", prefix+1)))
	for _, line := range oldLines[prefix : len(oldLines)-suffix] {
		fmt.Fprintln(w, removedStyle.Render("  - "+line))
	}
	for _, line := range newLines[prefix : len(newLines)-suffix] {
		fmt.Fprintln(w, addedStyle.Render("  + "+line))
	}
}
