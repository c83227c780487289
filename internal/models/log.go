package models

// Severity tags a processing log entry
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// LogEntry is one outcome reported by a pipeline stage
type LogEntry struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ProcessingLog is the ordered outcome of a normalization run
type ProcessingLog []LogEntry

// Add appends an entry
func (l *ProcessingLog) Add(sev Severity, msg string) {
	*l = append(*l, LogEntry{Severity: sev, Message: msg})
}

// Warnings returns only the warning entries
func (l ProcessingLog) Warnings() []LogEntry {
	var out []LogEntry
	for _, e := range l {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}
