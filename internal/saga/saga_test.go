package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func step(name string, fail bool, log *[]string) Step {
	return Step{
		Name: name,
		Execute: func(context.Context) error {
			if fail {
				return errors.New(name + " exploded")
			}
			*log = append(*log, "exec:"+name)
			return nil
		},
		Compensate: func(context.Context) error {
			*log = append(*log, "comp:"+name)
			return nil
		},
	}
}

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var log []string
	s := New("test", zap.NewNop())
	s.AddStep(step("one", false, &log))
	s.AddStep(step("two", false, &log))
	s.AddStep(step("three", false, &log))

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"exec:one", "exec:two", "exec:three"}, log)
}

func TestExecute_CompensatesInReverseOnFailure(t *testing.T) {
	var log []string
	s := New("test", zap.NewNop())
	s.AddStep(step("one", false, &log))
	s.AddStep(step("two", false, &log))
	s.AddStep(step("three", true, &log))

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed at step "three"`)
	assert.Equal(t, []string{"exec:one", "exec:two", "comp:two", "comp:one"}, log)
}

func TestExecute_FailedStepIsNotCompensated(t *testing.T) {
	var log []string
	s := New("test", zap.NewNop())
	s.AddStep(step("only", true, &log))

	require.Error(t, s.Execute(context.Background()))
	assert.Empty(t, log)
}

func TestExecute_CompensationErrorDoesNotMaskOriginal(t *testing.T) {
	var log []string
	original := errors.New("downstream down")

	s := New("test", zap.NewNop())
	s.AddStep(Step{
		Name:    "one",
		Execute: func(context.Context) error { return nil },
		Compensate: func(context.Context) error {
			log = append(log, "comp:one")
			return errors.New("compensation also down")
		},
	})
	s.AddStep(Step{
		Name:    "two",
		Execute: func(context.Context) error { return original },
	})

	err := s.Execute(context.Background())
	require.ErrorIs(t, err, original)
	assert.Equal(t, []string{"comp:one"}, log)
}

func TestExecute_NilCompensateSkipped(t *testing.T) {
	var log []string
	s := New("test", zap.NewNop())
	s.AddStep(Step{Name: "one", Execute: func(context.Context) error { return nil }})
	s.AddStep(step("two", true, &log))

	require.Error(t, s.Execute(context.Background()))
	assert.Empty(t, log)
}
