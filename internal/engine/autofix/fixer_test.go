package autofix_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/lockmend/internal/adapters/syml"
	"go.trai.ch/lockmend/internal/adapters/telemetry"
	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/lockmend/internal/core/ports/mocks"
	"go.trai.ch/lockmend/internal/engine/autofix"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	root      = "/repo"
	commitA   = "1111111111111111111111111111111111111111"
	commitB   = "2222222222222222222222222222222222222222"
	conflicts = `__metadata:
  version: 7
  cacheKey: a

<<<<<<< HEAD
"lodash@npm:4":
  checksum: abc
=======
"lodash@npm:0.0.1":
  checksum: def
>>>>>>> feature
`
	variantA = `__metadata:
  version: 7
  cacheKey: a

"lodash@npm:4":
  checksum: abc
`
	variantB = `__metadata:
  version: 6
  cacheKey: b

"lodash@0.0.1":
  checksum: def
`
	mergedAB = `__metadata:
  version: 6
  cacheKey: merged

lodash@npm:0.0.1:
  checksum: b/def

lodash@npm:4:
  checksum: a/abc
`
)

var lockfilePath = filepath.Join(root, domain.DefaultLockfileName)

type fixture struct {
	runner *mocks.MockCommandRunner
	fs     *mocks.MockFileSystem
	logger *mocks.MockLogger
	fixer  *autofix.Fixer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		runner: mocks.NewMockCommandRunner(ctrl),
		fs:     mocks.NewMockFileSystem(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.fixer = autofix.NewFixer(f.runner, syml.NewCodec(), f.fs, f.logger, telemetry.NewNoOpTracer())
	return f
}

func (f *fixture) lockfile(content string) {
	f.fs.EXPECT().Exists(lockfilePath).Return(true, nil)
	f.fs.EXPECT().ReadFile(lockfilePath).Return([]byte(content), nil)
}

func (f *fixture) revParse(head string, stdout string, code int) {
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "rev-parse", head, "HEAD").
		Return(ports.ExecResult{Code: code, Stdout: stdout}, nil)
}

func (f *fixture) show(commit, content string) *gomock.Call {
	return f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "show", commit+":./yarn.lock").
		Return(ports.ExecResult{Stdout: content}, nil)
}

func defaultRequest() autofix.Request {
	cfg := domain.DefaultConfig()
	cfg.ProjectRoot = root
	return autofix.RequestFromConfig(cfg)
}

func TestFix_MergesVariants(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB+"\n", 0)
	f.show(commitA, variantA)
	f.show(commitB, variantB)

	var written []byte
	f.fs.EXPECT().
		ChangeFile(lockfilePath, gomock.Any(), ports.ChangeOptions{AutomaticNewlines: true}).
		DoAndReturn(func(_ string, content []byte, _ ports.ChangeOptions) (bool, error) {
			written = content
			return true, nil
		})

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, fixed)
	assert.Equal(t, mergedAB, string(written))
}

func TestFix_NothingToFix(t *testing.T) {
	tests := []struct {
		name  string
		req   autofix.Request
		setup func(f *fixture)
	}{
		{
			name:  "no project",
			req:   autofix.Request{},
			setup: func(*fixture) {},
		},
		{
			name: "missing lockfile",
			req:  defaultRequest(),
			setup: func(f *fixture) {
				f.fs.EXPECT().Exists(lockfilePath).Return(false, nil)
			},
		},
		{
			name: "no conflict marker",
			req:  defaultRequest(),
			setup: func(f *fixture) {
				f.lockfile(variantA)
			},
		},
		{
			name: "separator without start marker",
			req:  defaultRequest(),
			setup: func(f *fixture) {
				f.lockfile(variantA + "=======\n>>>>>>> feature\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			fixed, err := f.fixer.Fix(context.Background(), tt.req)
			require.NoError(t, err)
			assert.False(t, fixed)
		})
	}
}

func TestFix_Immutable(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)

	req := defaultRequest()
	req.Immutable = true

	fixed, err := f.fixer.Fix(context.Background(), req)
	require.ErrorContains(t, err, domain.ErrImmutableConflict.Error())
	assert.False(t, fixed)
}

func TestFix_FallsBackToRebase(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", "", 128)
	f.revParse("REBASE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA)
	f.show(commitB, variantB)
	f.fs.EXPECT().ChangeFile(lockfilePath, []byte(mergedAB), gomock.Any()).Return(true, nil)

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, fixed)
}

func TestFix_NoStrategyResolves(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", "", 128)
	f.revParse("REBASE_HEAD", "", 128)
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "rev-parse", "CHERRY_PICK_HEAD", "HEAD").
		Return(ports.ExecResult{Code: 128, Stderr: "fatal: ambiguous argument 'CHERRY_PICK_HEAD'"}, nil)

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.ErrorContains(t, err, domain.ErrVcsResolution.Error())
	assert.False(t, fixed)
}

func TestFix_FetchFailure(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA).AnyTimes()
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "show", commitB+":./yarn.lock").
		Return(ports.ExecResult{Code: 128, Stderr: "fatal: path 'yarn.lock' does not exist"}, nil)

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.ErrorContains(t, err, domain.ErrVcsBlobFetch.Error()+" in "+commitB)
	assert.False(t, fixed)
}

func TestFix_ParseFailure(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA).AnyTimes()
	f.show(commitB, "key: [unterminated\n")

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.ErrorContains(t, err, domain.ErrLockfileParse.Error())
	assert.False(t, fixed)
}

func TestFix_NoMergeableVariants(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, "\"lodash@npm:4\":\n  checksum: abc\n")
	f.show(commitB, "")

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.ErrorContains(t, err, domain.ErrNoMergeableVariants.Error())
	assert.False(t, fixed)
}

func TestFix_LegacyVariantWithoutMetadataIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, "# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.\n"+
		"# yarn lockfile v1\n\n\n"+
		"lodash@4.17.21:\n  version \"4.17.21\"\n  integrity sha512-old\n")
	f.show(commitB, "__metadata:\n  version: 8\n  cacheKey: 10c0\n\n\"lodash@npm:4.17.21\":\n  checksum: abc\n")
	want := "__metadata:\n  version: 8\n  cacheKey: merged\n\nlodash@npm:4.17.21:\n  checksum: 10c0/abc\n"
	f.fs.EXPECT().ChangeFile(lockfilePath, []byte(want), gomock.Any()).Return(true, nil)

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, fixed)
}

func TestFix_WriteFailure(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA)
	f.show(commitB, variantB)
	f.fs.EXPECT().ChangeFile(lockfilePath, gomock.Any(), gomock.Any()).Return(false, domain.ErrLockfileWriteFailed)

	fixed, err := f.fixer.Fix(context.Background(), defaultRequest())
	require.ErrorIs(t, err, domain.ErrLockfileWriteFailed)
	assert.False(t, fixed)
}

func TestFix_ResultFollowsCommitOrder(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	bDone := make(chan struct{})
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "show", commitA+":./yarn.lock").
		DoAndReturn(func(context.Context, string, string, ...string) (ports.ExecResult, error) {
			<-bDone
			return ports.ExecResult{Stdout: "__metadata:\n  version: 8\n  cacheKey: a\n\nx@npm:1:\n  checksum: one\n"}, nil
		})
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "show", commitB+":./yarn.lock").
		DoAndReturn(func(context.Context, string, string, ...string) (ports.ExecResult, error) {
			defer close(bDone)
			return ports.ExecResult{Stdout: "__metadata:\n  version: 8\n  cacheKey: b\n\nx@npm:1:\n  checksum: two\n"}, nil
		})

	out, err := f.fixer.Preview(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, "__metadata:\n  version: 8\n  cacheKey: merged\n\nx@npm:1:\n  checksum: b/two\n", string(out))
}

func TestPreview_DoesNotWrite(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA)
	f.show(commitB, variantB)

	out, err := f.fixer.Preview(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, mergedAB, string(out))
}

func TestPreview_NothingToFix(t *testing.T) {
	f := newFixture(t)
	f.lockfile(variantA)

	out, err := f.fixer.Preview(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    autofix.Status
	}{
		{name: "clean", content: variantA, want: autofix.StatusClean},
		{name: "conflicted", content: conflicts, want: autofix.StatusConflicted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.lockfile(tt.content)

			status, err := f.fixer.Check(context.Background(), defaultRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestCheck_ReadError(t *testing.T) {
	f := newFixture(t)
	f.fs.EXPECT().Exists(lockfilePath).Return(true, nil)
	f.fs.EXPECT().ReadFile(lockfilePath).Return(nil, errors.New("permission denied"))

	_, err := f.fixer.Check(context.Background(), defaultRequest())
	require.ErrorContains(t, err, "permission denied")
}

func TestFix_RecordsStageSpans(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.revParse("MERGE_HEAD", commitA+"\n"+commitB, 0)
	f.show(commitA, variantA)
	f.show(commitB, variantB)
	f.fs.EXPECT().ChangeFile(lockfilePath, gomock.Any(), gomock.Any()).Return(true, nil)

	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	fixed, err := f.fixer.WithTracer(telemetry.NewOTelTracer(tp)).Fix(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.True(t, fixed)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{
		"detect", "fetch 11111111", "fetch 22222222", "retrieve", "merge", "write", "autofix",
	}, names)
}

func TestFix_CustomStrategies(t *testing.T) {
	f := newFixture(t)
	f.lockfile(conflicts)
	f.runner.EXPECT().
		Run(gomock.Any(), root, "git", "rev-parse", "ORIG_HEAD", "HEAD").
		Return(ports.ExecResult{Stdout: commitA + "\n" + commitB}, nil)
	f.show(commitA, variantA)
	f.show(commitB, variantB)

	fixer := f.fixer.WithStrategies([]autofix.ResolutionStrategy{
		{Operation: "reset", Refs: []string{"ORIG_HEAD", "HEAD"}},
	})

	out, err := fixer.Preview(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, mergedAB, string(out))
}
