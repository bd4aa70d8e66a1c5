package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, s *counter) (Result, error) {
	return Success(Payload{}), nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Flow[counter]
		wantErr string
	}{
		{
			name: "chain",
			build: func() *Flow[counter] {
				return New[counter]("ok").
					Step("a", noop).
					Step("b", noop, After("a")).
					Step("c", noop, After("b"))
			},
		},
		{
			name: "fan out and join",
			build: func() *Flow[counter] {
				return New[counter]("ok").
					Step("a", noop).
					Step("b", noop, After("a")).
					Step("c", noop, After("a")).
					Step("d", noop, After("b", "c"))
			},
		},
		{
			name:    "empty",
			build:   func() *Flow[counter] { return New[counter]("empty") },
			wantErr: "no steps registered",
		},
		{
			name: "two starts",
			build: func() *Flow[counter] {
				return New[counter]("f").Step("a", noop).Step("b", noop)
			},
			wantErr: "expected exactly one start step, found 2",
		},
		{
			name: "duplicate",
			build: func() *Flow[counter] {
				return New[counter]("f").Step("a", noop).Step("a", noop)
			},
			wantErr: `duplicate step "a"`,
		},
		{
			name: "unknown predecessor",
			build: func() *Flow[counter] {
				return New[counter]("f").Step("a", noop).Step("b", noop, After("zzz"))
			},
			wantErr: `step "b" depends on unknown step "zzz"`,
		},
		{
			name: "cycle",
			build: func() *Flow[counter] {
				return New[counter]("f").
					Step("a", noop).
					Step("b", noop, After("a", "c")).
					Step("c", noop, After("b"))
			},
			wantErr: "cycle among steps [b c]",
		},
		{
			name: "nil function",
			build: func() *Flow[counter] {
				return New[counter]("f").Step("a", nil)
			},
			wantErr: `step "a" has no function`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var gerr *GraphError
			require.ErrorAs(t, err, &gerr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOrderFollowsRegistrationOnTies(t *testing.T) {
	f := New[counter]("f").
		Step("start", noop).
		Step("late", noop, After("mid")).
		Step("mid", noop, After("start")).
		Step("side", noop, After("start"))

	ordered, err := f.order()
	require.NoError(t, err)

	var names []string
	for _, s := range ordered {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{"start", "mid", "late", "side"}, names)
	assert.Equal(t, []string{"start", "late", "mid", "side"}, f.Steps())
}
