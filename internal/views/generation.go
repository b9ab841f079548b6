package views

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"eventdesk/internal/observability"
)

// generation numbers the refreshes of one view. Only the response of the
// latest refresh may be applied. Callers hold the view's mutex.
type generation struct {
	n uint64
}

func (g *generation) begin() uint64 {
	g.n++
	return g.n
}

func (g *generation) current(token uint64) bool {
	return token == g.n
}

func dropStale(ctx context.Context, view string, token uint64) {
	observability.CountStaleResponse(view)
	log.FromContext(ctx).
		WithField("view", view).
		WithField("token", token).
		Debug("Dropping stale response")
}
