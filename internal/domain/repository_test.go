package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	res := Page(items, ListFilter{Limit: 2, Offset: 3})
	assert.Equal(t, []int{4, 5}, res.Items)
	assert.Equal(t, int64(5), res.TotalCount)

	res = Page(items, ListFilter{Limit: 2, Offset: 10})
	assert.Empty(t, res.Items)

	res = Page(items, ListFilter{})
	assert.Len(t, res.Items, 5)
	assert.Equal(t, 100, res.Limit)
}

func TestHookRegistry_StopsOnFirstError(t *testing.T) {
	reg := NewHookRegistry[*int]()
	calls := 0
	reg.On(BeforeCreate, func(ctx context.Context, v *int) error {
		calls++
		return errors.New("rejected")
	})
	reg.On(BeforeCreate, func(ctx context.Context, v *int) error {
		calls++
		return nil
	})

	v := 1
	err := reg.Run(context.Background(), BeforeCreate, &v)
	assert.EqualError(t, err, "rejected")
	assert.Equal(t, 1, calls)
	assert.NoError(t, reg.Run(context.Background(), BeforeDelete, &v))
}
