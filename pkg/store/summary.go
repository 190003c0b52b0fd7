package store

import "github.com/ssargent/progress/pkg/model"

// Summary is the full day report over the store
type Summary struct {
	Today     []model.Task `json:"today"`      // created on the current day
	CarryOver []model.Task `json:"carry_over"` // created before today and never checked

	Total                int `json:"total"`
	Completed            int `json:"completed"`
	Incomplete           int `json:"incomplete"`
	CreatedToday         int `json:"created_today"`
	CompletedToday       int `json:"completed_today"`
	CompletedBeforeToday int `json:"completed_before_today"`
	CarryOverCount       int `json:"carry_over_count"`

	// Range of created_at over all tasks; zero when the store is empty.
	EarliestCreatedAt int64 `json:"earliest_created_at"`
	LatestCreatedAt   int64 `json:"latest_created_at"`

	GeneratedAt int64 `json:"generated_at"`
}

// HasRange reports whether EarliestCreatedAt and LatestCreatedAt are meaningful
func (s Summary) HasRange() bool {
	return s.Total > 0
}

// BasicSummary backs the one-line status
type BasicSummary struct {
	// Not done and either created today or never checked; includes PendingPrevious.
	PendingToday int `json:"pending_today"`
	// Not done, never checked and created before today.
	PendingPrevious int   `json:"pending_previous"`
	GeneratedAt     int64 `json:"generated_at"`
}

// Summarize partitions the tasks by creation day and computes the day statistics
func (s *Store) Summarize() Summary {
	now := s.clock.Now()

	sum := Summary{
		Today:       []model.Task{},
		CarryOver:   []model.Task{},
		Total:       len(s.data.Tasks),
		GeneratedAt: now.Unix(),
	}

	for i, t := range s.data.Tasks {
		if i == 0 || t.CreatedAt < sum.EarliestCreatedAt {
			sum.EarliestCreatedAt = t.CreatedAt
		}
		if i == 0 || t.CreatedAt > sum.LatestCreatedAt {
			sum.LatestCreatedAt = t.CreatedAt
		}

		switch {
		case OnDay(t.CreatedAt, now):
			sum.Today = append(sum.Today, t.Clone())
		case BeforeDay(t.CreatedAt, now) && t.CheckedAt == nil:
			sum.CarryOver = append(sum.CarryOver, t.Clone())
		}

		if t.Done {
			sum.Completed++
			if t.CheckedAt != nil && OnDay(*t.CheckedAt, now) {
				sum.CompletedToday++
			}
		}
	}

	sum.Incomplete = sum.Total - sum.Completed
	sum.CreatedToday = len(sum.Today)
	sum.CompletedBeforeToday = sum.Completed - sum.CompletedToday
	sum.CarryOverCount = len(sum.CarryOver)

	return sum
}

// SummarizeBasic counts pending tasks for the short status line
func (s *Store) SummarizeBasic() BasicSummary {
	now := s.clock.Now()

	sum := BasicSummary{GeneratedAt: now.Unix()}
	for _, t := range s.data.Tasks {
		if t.Done {
			continue
		}
		if OnDay(t.CreatedAt, now) || t.CheckedAt == nil {
			sum.PendingToday++
		}
		if BeforeDay(t.CreatedAt, now) && t.CheckedAt == nil {
			sum.PendingPrevious++
		}
	}
	return sum
}
