package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kbukum/soundguard/component"
)

// Summary renders the startup report: service identity, how long startup
// took and the health of each component.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	extra           [][2]string
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// AddInfo appends a key/value line such as the listen address.
func (s *Summary) AddInfo(key, value string) {
	s.extra = append(s.extra, [2]string{key, value})
}

// Render writes the report to w.
func (s *Summary) Render(w io.Writer, health []component.Health) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s started in %s\n", s.serviceName, s.version, s.startupDuration.Round(time.Millisecond))
	for _, kv := range s.extra {
		fmt.Fprintf(&b, "  %-12s %s\n", kv[0]+":", kv[1])
	}

	if len(health) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Component", "Status", "Detail"})
		for _, h := range health {
			tw.AppendRow(table.Row{h.Name, string(h.Status), h.Message})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignLeft, Transformer: statusColor},
		})
		b.WriteString(tw.Render())
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(w, b.String())
}

func statusColor(v any) string {
	s, _ := v.(string)
	switch component.HealthStatus(s) {
	case component.StatusHealthy:
		return text.FgGreen.Sprint(s)
	case component.StatusDegraded:
		return text.FgYellow.Sprint(s)
	case component.StatusUnhealthy:
		return text.FgRed.Sprint(s)
	default:
		return s
	}
}
