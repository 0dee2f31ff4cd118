package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		ProgramCounts: make(map[string]int),
	}
}

// Report aggregates session logs into usage statistics.
type Report struct {
	LogEntries    int
	Sessions      int
	Pipelines     int
	NonZeroExits  int
	EngineErrors  int
	ProgramCounts map[string]int
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Event {
	case EventSessionStart:
		r.Sessions++
	case EventPipeline:
		r.Pipelines++
		if le.ExitStatus != 0 {
			r.NonZeroExits++
		}
		if le.Error != "" {
			r.EngineErrors++
		}
		for _, program := range le.Programs {
			r.ProgramCounts[program]++
		}
	}
}

// WriteTo renders the report as a text table.
func (r *Report) WriteTo(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 8, 8, 4, ' ', 0)

	fmt.Fprintf(tw, "Sessions:\t%d\n", r.Sessions)
	fmt.Fprintf(tw, "Pipelines:\t%d\n", r.Pipelines)
	fmt.Fprintf(tw, "Non-zero exits:\t%d\n", r.NonZeroExits)
	fmt.Fprintf(tw, "Failed to run:\t%d\n", r.EngineErrors)
	fmt.Fprintln(tw)

	type programCount struct {
		name  string
		count int
	}
	var counts []programCount
	for name, count := range r.ProgramCounts {
		counts = append(counts, programCount{name, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	fmt.Fprintln(tw, "RUNS\tPROGRAM")
	for _, pc := range counts {
		fmt.Fprintf(tw, "%d\t%s\n", pc.count, pc.name)
	}

	return tw.Flush()
}
