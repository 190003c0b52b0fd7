package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/model"
	"github.com/ssargent/progress/pkg/storage"
	"github.com/ssargent/progress/pkg/store"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// theme holds the styles of the table output
type theme struct {
	Title    lipgloss.Style
	Carry    lipgloss.Style
	Done     lipgloss.Style
	Pending  lipgloss.Style
	Struck   lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Critical lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) theme {
	return theme{
		Title:    r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		Carry:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		Done:     r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Pending:  r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Struck:   r.NewStyle().Strikethrough(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Accent:   r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		Critical: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	}
}

// printer renders command results as styled text or JSON
type printer struct {
	out    io.Writer
	format string
	style  theme
	now    time.Time
}

func newPrinter(cmd *cobra.Command) *printer {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")

	now := time.Now()
	if clock, err := container.Clock(); err == nil {
		now = clock.Now()
	}

	return &printer{
		out:    out,
		format: format,
		style:  newTheme(lipgloss.NewRenderer(out)),
		now:    now,
	}
}

func (p *printer) json() bool {
	return p.format == formatJSON
}

func (p *printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// date formats a Unix timestamp as a calendar date in the clock's zone
func (p *printer) date(unix int64) string {
	return time.Unix(unix, 0).In(p.now.Location()).Format("2006-01-02")
}

func (p *printer) ago(unix int64) string {
	return formatTimeAgo(time.Unix(unix, 0), p.now)
}

// summary prints the full day report
func (p *printer) summary(sum store.Summary) error {
	if p.json() {
		return p.writeJSON(sum)
	}

	if len(sum.Today) == 0 && len(sum.CarryOver) == 0 {
		p.println(p.style.Title.Render("No tasks for today"))
	}

	if len(sum.Today) > 0 {
		p.println(p.style.Title.Render("Tasks for Today:"))
		for _, t := range sum.Today {
			if t.Done {
				p.println(p.style.Done.Render(t.Ref()+" - [x]"), p.style.Struck.Render(t.Label))
				continue
			}
			p.println(p.style.Pending.Render(t.Ref()+" - [-]"), t.Label)
		}
		p.println()
	}

	if len(sum.CarryOver) > 0 {
		p.println(p.style.Carry.Render("Carry-over tasks:"))
		for _, t := range sum.CarryOver {
			p.printf("%s (%s) - [ ] %s\n", t.Ref(), p.ago(t.CreatedAt), t.Label)
		}
		p.println()
	}

	p.println(p.style.Title.Render("Statistics:"))
	p.printf("- Total tasks: %d\n", sum.Total)
	p.printf("- Completed tasks: %d\n", sum.Completed)
	p.printf("- Incomplete tasks: %d\n", sum.Incomplete)
	p.printf("- Tasks created today: %d\n", sum.CreatedToday)
	p.printf("- Tasks marked as done today: %d\n", sum.CompletedToday)
	p.printf("- Tasks marked as done before today: %d\n", sum.CompletedBeforeToday)
	p.printf("- Unchecked tasks from before today: %d\n", sum.CarryOverCount)
	if sum.HasRange() {
		p.printf("- Earliest task creation date: %s\n", p.date(sum.EarliestCreatedAt))
		p.printf("- Latest task creation date: %s\n", p.date(sum.LatestCreatedAt))
	}
	p.println(p.style.Muted.Render("Use --help to see more."))
	return nil
}

// basic prints the one-line status
func (p *printer) basic(sum store.BasicSummary) error {
	if p.json() {
		return p.writeJSON(sum)
	}

	stamp := p.style.Done.Render("[" + p.now.Format("15:04") + "]")
	if sum.PendingToday == 0 && sum.PendingPrevious == 0 {
		p.printf("📅 %s Nothing pending. Add a task with 'progress add'\n", stamp)
		return nil
	}

	p.printf("📅 %s You have %s pending task(s) for today, %s from previous days\n",
		stamp,
		p.style.Accent.Render(fmt.Sprint(sum.PendingToday)),
		p.style.Critical.Render(fmt.Sprint(sum.PendingPrevious)))
	return nil
}

// task prints the detail view of one task
func (p *printer) task(t model.Task) error {
	if p.json() {
		return p.writeJSON(t)
	}

	marker := p.style.Pending.Render("[-]")
	if t.Done {
		marker = p.style.Done.Render("[x]")
	}
	p.printf("%s · %s\n", marker, t.Ref())
	p.println("----------------------")
	p.println(t.Label)
	p.printf("Created (%s)\n", p.ago(t.CreatedAt))
	if t.CheckedAt != nil {
		p.printf("Finished (%s)\n", p.ago(*t.CheckedAt))
	}
	return nil
}

// taskChange reports the outcome of a mutation
func (p *printer) taskChange(action string, t model.Task) error {
	if p.json() {
		return p.writeJSON(map[string]interface{}{
			"action": action,
			"task":   t,
		})
	}
	p.printf("Task %s %s\n", t.Ref(), action)
	return nil
}

// tasks prints a table of tasks
func (p *printer) tasks(tasks []model.Task) error {
	if p.json() {
		return p.writeJSON(tasks)
	}

	if len(tasks) == 0 {
		p.println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tCREATED\tCHECKED\tLABEL")
	for _, t := range tasks {
		state, checked := "pending", "-"
		if t.Done {
			state = "done"
		}
		if t.CheckedAt != nil {
			checked = p.ago(*t.CheckedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Ref(), state, p.ago(t.CreatedAt), checked, t.Label)
	}
	return w.Flush()
}

// snapshots prints the history archive listing
func (p *printer) snapshots(snaps []storage.Snapshot) error {
	if p.json() {
		return p.writeJSON(snaps)
	}

	if len(snaps) == 0 {
		p.println("No snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTAKEN\tSIZE")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s (%s)\t%d bytes\n",
			s.ID, s.CreatedAt.In(p.now.Location()).Format(time.RFC3339), formatTimeAgo(s.CreatedAt, p.now), s.Size)
	}
	return w.Flush()
}

// formatTimeAgo phrases the distance from then to now in the largest whole unit up to weeks
func formatTimeAgo(then, now time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return plural(int64(d/time.Second), "second")
	case d < time.Hour:
		return plural(int64(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int64(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int64(d/(24*time.Hour)), "day")
	default:
		return plural(int64(d/(7*24*time.Hour)), "week")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
