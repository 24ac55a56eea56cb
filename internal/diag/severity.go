package diag

// Severity ранжирует диагностики. Числовой порядок значим: сортировка
// Bag опирается на него, чтобы ошибки шли раньше предупреждений.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{"INFO", "WARNING", "ERROR"}

// String returns the uppercase label used by the text renderers.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
