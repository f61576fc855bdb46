package dispatch

import "time"

// queuedIncident is a priority-queue entry. Entries are ordered by descending
// priority score; ties fall back to the earliest report time and then to the
// insertion sequence, so dequeue order is fully deterministic.
type queuedIncident struct {
	id         string
	score      float64
	reportedAt time.Time
	seq        uint64
}

type incidentQueue []*queuedIncident

func (q incidentQueue) Len() int { return len(q) }

func (q incidentQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score > q[j].score
	}
	if !q[i].reportedAt.Equal(q[j].reportedAt) {
		return q[i].reportedAt.Before(q[j].reportedAt)
	}
	return q[i].seq < q[j].seq
}

func (q incidentQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *incidentQueue) Push(x any) { *q = append(*q, x.(*queuedIncident)) }

func (q *incidentQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
