package shell_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockmend/internal/adapters/shell"
	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRunner_Run_CapturesOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)

	res, err := runner.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRunner_Run_NonZeroExitIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)

	res, err := runner.Run(context.Background(), t.TempDir(), "sh", "-c", "echo nope >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 3, res.Code)
	assert.Equal(t, "nope\n", res.Stderr)
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)
	dir := t.TempDir()

	res, err := runner.Run(context.Background(), dir, "pwd", "-P")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", res.Stdout)
}

func TestRunner_Run_Environment(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	t.Setenv("LOCKMEND_TEST_VALUE", "inherited")
	t.Setenv("GIT_TERMINAL_PROMPT", "1")

	runner := shell.NewRunner(mockLogger)

	res, err := runner.Run(context.Background(), t.TempDir(), "sh", "-c", "echo $LOCKMEND_TEST_VALUE $GIT_TERMINAL_PROMPT")
	require.NoError(t, err)
	assert.Equal(t, "inherited 0\n", res.Stdout)
}

func TestRunner_Run_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)

	_, err := runner.Run(context.Background(), t.TempDir(), "lockmend-definitely-not-a-binary")
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrCommandStartFailed.Error())
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	runner := shell.NewRunner(mockLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, t.TempDir(), "sleep", "5")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
