package uistate

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateVariants(t *testing.T) {
	loading := Loading[string]()
	assert.True(t, loading.IsLoading())
	_, ok := loading.Data()
	assert.False(t, ok)

	success := Success("payload")
	assert.True(t, success.IsSuccess())
	data, ok := success.Data()
	assert.True(t, ok)
	assert.Equal(t, "payload", data)

	failure := Failure[string]()
	assert.True(t, failure.IsFailure())
	_, ok = failure.Data()
	assert.False(t, ok)
}

func TestStateJSON(t *testing.T) {
	tests := []struct {
		name  string
		state State[[]int]
		want  string
	}{
		{"loading", Loading[[]int](), `{"status":"loading"}`},
		{"success", Success([]int{1, 2}), `{"status":"success","data":[1,2]}`},
		{"failure", Failure[[]int](), `{"status":"failure"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.state)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestContainerStartsLoading(t *testing.T) {
	c := NewContainer[int]()
	assert.True(t, c.Value().IsLoading())

	c.Set(Success(3))
	v, ok := c.Value().Data()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestContainerSubscribe(t *testing.T) {
	c := NewContainer[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.Subscribe(ctx)
	first := <-ch
	assert.True(t, first.IsLoading())

	c.Set(Success(1))
	select {
	case got := <-ch:
		v, _ := got.Data()
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestContainerSubscribeKeepsLatest(t *testing.T) {
	c := NewContainer[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.Subscribe(ctx)
	for i := 0; i < 10; i++ {
		c.Set(Success(i))
	}
	got := <-ch
	v, ok := got.Data()
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestContainerSubscribeClosesOnCancel(t *testing.T) {
	c := NewContainer[int]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := c.Subscribe(ctx)
	<-ch
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	c.Set(Failure[int]())
}

func TestContainerConcurrentAccess(t *testing.T) {
	c := NewContainer[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := c.Subscribe(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(Success(i*100 + j))
				_ = c.Value()
			}
		}(i)
	}
	go func() {
		for range ch {
		}
	}()
	wg.Wait()
	assert.True(t, c.Value().IsSuccess())
}
