package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	all := []Status{StatusWaiting, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled}

	legal := map[Status][]Status{
		StatusWaiting:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusInTransit, StatusCancelled},
		StatusInTransit:  {StatusDelivered},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range all {
		allowed := map[Status]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[to], got, "%s -> %s", from, to)
		}
	}
}

func TestStatusSelfTransitionIsIllegal(t *testing.T) {
	for _, s := range []Status{StatusWaiting, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled} {
		assert.False(t, s.CanTransitionTo(s), "%s -> %s", s, s)
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusWaiting.Active())
	assert.True(t, StatusProcessing.Active())
	assert.True(t, StatusInTransit.Active())
	assert.False(t, StatusDelivered.Active())
	assert.False(t, StatusCancelled.Active())
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusWaiting.Editable())
	assert.False(t, StatusProcessing.Editable())
	assert.False(t, StatusInTransit.Editable())
	assert.False(t, StatusDelivered.Editable())
	assert.False(t, StatusCancelled.Editable())
}

func TestStatusCancellable(t *testing.T) {
	assert.True(t, StatusWaiting.Cancellable())
	assert.True(t, StatusProcessing.Cancellable())
	assert.False(t, StatusInTransit.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "finalized", StatusDelivered.Display())
	assert.Equal(t, "waiting", StatusWaiting.Display())
	assert.Equal(t, "cancelled", StatusCancelled.Display())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusWaiting.Valid())
	assert.False(t, Status("finalized").Valid(), "display alias is not a storage state")
	assert.False(t, Status("").Valid())
}
