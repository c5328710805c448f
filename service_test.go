package taskpool_test

import (
	"context"
	"embed"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/taskpool"
	"github.com/viant/taskpool/scheduler"
)

//go:embed testdata/*
var embedFS embed.FS

func TestService(t *testing.T) {
	t.Setenv("POOL_SIZE", "2")
	srv := taskpool.New(
		taskpool.WithMetaFsOptions(&embedFS),
		taskpool.WithMetaBaseURL("embed:///testdata"),
		taskpool.WithConfigURL("config.yaml"),
	)

	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown(ctx)

	assert.Equal(t, 2, srv.Scheduler().Capacity())
	assert.Equal(t, "taskpool-test", srv.Tracker().Pool)

	future, err := srv.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		return strings.ToUpper("done"), nil
	})
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	value, err := future.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, "DONE", value)
}

func TestService_NotStarted(t *testing.T) {
	srv := taskpool.New()
	ctx := context.Background()

	_, err := srv.Submit(ctx, func(ctx context.Context) (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, scheduler.ErrNotStarted)
	assert.ErrorIs(t, srv.Dispatch(ctx, func(ctx context.Context) (interface{}, error) { return nil, nil }, nil), scheduler.ErrNotStarted)
	assert.ErrorIs(t, srv.Resize(ctx, 1), scheduler.ErrNotStarted)
	assert.ErrorIs(t, srv.Shutdown(ctx), scheduler.ErrNotStarted)
}

func TestService_Resize(t *testing.T) {
	srv := taskpool.New(taskpool.WithPoolSize(1))
	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown(ctx)

	assert.Equal(t, 1, srv.Scheduler().Capacity())
	require.NoError(t, srv.Resize(ctx, 3))
	assert.Equal(t, 3, srv.Scheduler().Capacity())
	require.NoError(t, srv.Resize(ctx, 1))
	assert.Equal(t, 1, srv.Scheduler().Capacity())
}

type greetInput struct {
	Name string
}

type greetOutput struct {
	Message string
}

func TestService_SubmitNamed(t *testing.T) {
	srv := taskpool.New(taskpool.WithPoolSize(1))
	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown(ctx)

	err := srv.Register("greet", &greetInput{}, &greetOutput{}, func(ctx context.Context, input, output interface{}) error {
		in := input.(*greetInput)
		out := output.(*greetOutput)
		out.Message = "hello " + in.Name
		return nil
	})
	require.NoError(t, err)

	future, err := srv.SubmitNamed(ctx, "greet", map[string]interface{}{"Name": "bob"})
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	value, err := future.Wait(waitCtx)
	require.NoError(t, err)
	output, ok := value.(*greetOutput)
	require.True(t, ok)
	assert.Equal(t, "hello bob", output.Message)
}

func TestService_SubmitNamedNotFound(t *testing.T) {
	srv := taskpool.New(taskpool.WithPoolSize(1))
	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown(ctx)

	future, err := srv.SubmitNamed(ctx, "missing", nil)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err = future.Wait(waitCtx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler missing not found")
}

func TestService_Dispatch(t *testing.T) {
	srv := taskpool.New(taskpool.WithPoolSize(1))
	ctx := context.Background()
	require.NoError(t, srv.Start(ctx))
	defer srv.Shutdown(ctx)

	completions := make(chan scheduler.Completion, 1)
	err := srv.Dispatch(ctx, func(ctx context.Context) (interface{}, error) {
		return 7, nil
	}, func(completion scheduler.Completion) {
		completions <- completion
	})
	require.NoError(t, err)

	select {
	case completion := <-completions:
		require.NoError(t, completion.Err)
		assert.Equal(t, 7, completion.Value)
	case <-time.After(time.Second):
		t.Fatal("completion was not delivered")
	}
}

func TestDefault(t *testing.T) {
	srv := taskpool.Default()
	require.NotNil(t, srv)
	assert.Same(t, srv, taskpool.Default())

	ctx := context.Background()
	future, err := taskpool.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		return 21 * 2, nil
	})
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	value, err := future.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}
