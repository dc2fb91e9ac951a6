package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/lockmend/internal/adapters/telemetry"
	"go.trai.ch/lockmend/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_ForwardsStages(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	var parentID string
	gomock.InOrder(
		mockRenderer.EXPECT().OnStageStart(gomock.Any(), "", "autofix", gomock.Any()).
			Do(func(spanID, _, _ string, _ any) { parentID = spanID }),
		mockRenderer.EXPECT().OnStageStart(gomock.Any(), gomock.Any(), "merge", gomock.Any()).
			Do(func(_, parent, _ string, _ any) { require.Equal(t, parentID, parent) }),
		mockRenderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ string, _ any, err error) { require.EqualError(t, err, "bad variant") }),
		mockRenderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), nil),
		mockRenderer.EXPECT().Flush().Return(nil),
	)

	tp := telemetry.NewProvider(telemetry.NewBridge(mockRenderer))
	tracer := telemetry.NewOTelTracer(tp)

	ctx, parent := tracer.Start(context.Background(), "autofix")
	_, child := tracer.Start(ctx, "merge")
	child.RecordError(errors.New("bad variant"))
	child.End()
	parent.End()

	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := telemetry.NewProvider(telemetry.NewBridge(nil))
	tracer := telemetry.NewOTelTracer(tp)

	_, span := tracer.Start(context.Background(), "stage")
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
}
