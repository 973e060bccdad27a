package domain

type InsightSeverity string

const (
	SeveritySuccess InsightSeverity = "success"
	SeverityWarning InsightSeverity = "warning"
	SeverityDanger  InsightSeverity = "danger"
	SeverityInfo    InsightSeverity = "info"
)

// Insight is a predictive hint shown on the dashboard, already localized.
type Insight struct {
	ID       string          `json:"id"`
	Severity InsightSeverity `json:"severity"`
	Metric   string          `json:"metric"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Action   string          `json:"action"`
}

// InsightTemplate holds an insight's text in every supported locale.
type InsightTemplate struct {
	ID       string            `yaml:"id"`
	Severity InsightSeverity   `yaml:"severity"`
	Metric   string            `yaml:"metric"`
	Title    map[Locale]string `yaml:"title"`
	Body     map[Locale]string `yaml:"body"`
	Action   map[Locale]string `yaml:"action"`
}

// Localize picks the text for locale, falling back to English.
func (t InsightTemplate) Localize(locale Locale) Insight {
	pick := func(m map[Locale]string) string {
		if v, ok := m[locale]; ok && v != "" {
			return v
		}
		return m[LocaleEN]
	}
	return Insight{
		ID:       t.ID,
		Severity: t.Severity,
		Metric:   t.Metric,
		Title:    pick(t.Title),
		Body:     pick(t.Body),
		Action:   pick(t.Action),
	}
}
