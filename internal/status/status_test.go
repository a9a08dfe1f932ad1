package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var all = []Status{Pending, Paid, Preparing, Ready, Delivering, Delivered, Cancelled}

func TestValidateTransition_FullTable(t *testing.T) {
	t.Parallel()

	allowed := map[Status][]Status{
		Pending:    {Paid, Cancelled},
		Paid:       {Preparing, Cancelled},
		Preparing:  {Ready},
		Ready:      {Delivering},
		Delivering: {Delivered},
		Delivered:  {},
		Cancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}

			err := ValidateTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from.Name(), to.Name())
			} else {
				assert.Error(t, err, "%s -> %s", from.Name(), to.Name())
			}
			assert.Equal(t, want, CanTransition(from, to))
		}
	}
}

func TestValidateTransition_ErrorCarriesAllowedSet(t *testing.T) {
	t.Parallel()

	err := ValidateTransition(Paid, Delivered)
	require.Error(t, err)

	var ite *InvalidTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, Paid, ite.From)
	assert.Equal(t, Delivered, ite.To)
	assert.Equal(t, []Status{Preparing, Cancelled}, ite.Allowed)
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NextStatuses(Delivered))
	assert.Empty(t, NextStatuses(Cancelled))
	assert.True(t, IsTerminal(Delivered))
	assert.True(t, IsTerminal(Cancelled))

	// No self-loop on Cancelled: re-entering is rejected.
	assert.Error(t, ValidateTransition(Cancelled, Cancelled))
	assert.Error(t, ValidateTransition(Cancelled, Paid))

	for _, s := range []Status{Pending, Paid, Preparing, Ready, Delivering} {
		assert.False(t, IsTerminal(s), s.Name())
	}
}

func TestNextStatuses_UnknownStatus(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NextStatuses(Status(42)))
	assert.False(t, Status(42).Valid())
	assert.True(t, Pending.Valid())
}

func TestStatusNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", Pending.Name())
	assert.Equal(t, "cancelled", Cancelled.Name())
	assert.Equal(t, "unknown(9)", Status(9).Name())
}
