package models

type Stats struct {
	Total          int
	Active         int
	Paused         int
	Completed      int
	CompletionRate int
}

func NewStats(total, active, paused, completed int) Stats {
	s := Stats{
		Total:     total,
		Active:    active,
		Paused:    paused,
		Completed: completed,
	}
	if total > 0 {
		// Rounded to the nearest whole percent.
		s.CompletionRate = (completed*200 + total) / (total * 2)
	}
	return s
}

func CountTasks(tasks []*Task) Stats {
	var active, paused, completed int
	for _, t := range tasks {
		switch t.Status {
		case StatusActive:
			active++
		case StatusPaused:
			paused++
		case StatusCompleted:
			completed++
		}
	}
	return NewStats(len(tasks), active, paused, completed)
}
