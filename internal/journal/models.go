package journal

import "time"

// MaxTags is the maximum number of tags kept on a diary entry.
const MaxTags = 5

// DiaryEntry is the diary for a single calendar date.
type DiaryEntry struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD, unique
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Todo is a free-standing todo item.
type Todo struct {
	ID        int64     `json:"id"`
	ClientID  string    `json:"clientId,omitempty"`
	Title     string    `json:"title"`
	IsDone    bool      `json:"isDone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WeeklyTask is a todo scoped to the week starting at WeekStartDate.
type WeeklyTask struct {
	ID            int64     `json:"id"`
	ClientID      string    `json:"clientId,omitempty"`
	WeekStartDate string    `json:"weekStartDate"`
	Title         string    `json:"title"`
	IsDone        bool      `json:"isDone"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PeriodType is the span an analysis covers.
type PeriodType string

const (
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
)

// Valid reports whether p is a known period type.
func (p PeriodType) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth
}

// Analysis is a saved period summary. (PeriodType, StartDate, EndDate) is
// its natural key.
type Analysis struct {
	ID         int64      `json:"id"`
	PeriodType PeriodType `json:"periodType"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	Summary    string     `json:"summary"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// AnalysisDraft is a generated summary that has not been saved.
type AnalysisDraft struct {
	PeriodType PeriodType `json:"periodType"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	Summary    string     `json:"summary"`
}

// View is the date window the dashboard was built for. Both values are
// computed server-side.
type View struct {
	Date          string `json:"date"`
	WeekStartDate string `json:"weekStartDate"`
}

// Suggestions carries unsaved, generated data shown alongside the dashboard.
type Suggestions struct {
	DiaryTags []string `json:"diaryTags,omitempty"`
}

// Snapshot is the dashboard read-model returned after every tool call.
// It is rebuilt on demand and never stored.
type Snapshot struct {
	View            View           `json:"view"`
	Diary           *DiaryEntry    `json:"diary"`
	Todos           []Todo         `json:"todos"`
	WeeklyTasks     []WeeklyTask   `json:"weeklyTasks"`
	AnalysisDraft   *AnalysisDraft `json:"analysisDraft"`
	AnalysisHistory []Analysis     `json:"analysisHistory"`
	Suggestions     *Suggestions   `json:"suggestions,omitempty"`
}
