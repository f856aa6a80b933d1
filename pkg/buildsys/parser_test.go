package buildsys

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func writeScript(t *testing.T, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.star")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, dir
}

const basicScript = `mode = option("mode", "debug", help="Build mode")

def configure():
    prep = task(
        hidden=True,
        cmds=["touch prep.txt"],
    )

    task(
        "build",
        default=True,
        desc="Build in %s mode" % mode,
        inputs=["src.txt"],
        outputs=["out.txt"],
        cmds=[prep, "cp src.txt out.txt"],
    )

    task(
        "check",
        phony=True,
        desc="Run checks",
        deps=["build"],
        cmds=["echo checking"],
    )
`

func TestRunScriptCollectsTasks(t *testing.T) {
	path, dir := writeScript(t, basicScript)

	tasks, options, err := RunScript(testContext(), path, dir, nil, true)
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	require.Contains(t, tasks, "build")
	require.Contains(t, tasks, "check")

	build := tasks["build"]
	assert.True(t, build.Default)
	assert.False(t, build.Phony)
	assert.Equal(t, "Build in debug mode", build.Desc)
	assert.Equal(t, []string{"src.txt"}, build.Inputs)
	assert.Equal(t, []string{"out.txt"}, build.Outputs)
	// the hidden prep task is referenced but not listed
	require.Len(t, build.Cmds, 2)
	_, isRef := build.Cmds[0].(TaskCmdTaskRef)
	assert.True(t, isRef)

	check := tasks["check"]
	assert.True(t, check.Phony)
	assert.Equal(t, []string{"build"}, check.Deps)

	require.Contains(t, options, "mode")
	assert.Equal(t, "debug", options["mode"].Default())
	assert.Equal(t, "Build mode", options["mode"].Help)
}

func TestRunScriptOptionOverride(t *testing.T) {
	path, dir := writeScript(t, basicScript)

	tasks, _, err := RunScript(testContext(), path, dir, map[string]string{"mode": "release"}, true)
	require.NoError(t, err)

	assert.Equal(t, "Build in release mode", tasks["build"].Desc)
}

func TestRunScriptDefaultTask(t *testing.T) {
	path, dir := writeScript(t, basicScript)

	tasks, _, err := RunScript(testContext(), path, dir, nil, true)
	require.NoError(t, err)

	defaultTask := tasks.DefaultTask()
	require.NotNil(t, defaultTask)
	assert.Equal(t, "build", defaultTask.Short)
}

func TestRunScriptRejectsTwoDefaults(t *testing.T) {
	path, dir := writeScript(t, `def configure():
    task("a", default=True, cmds=["true"])
    task("b", default=True, cmds=["true"])
`)

	_, _, err := RunScript(testContext(), path, dir, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default task")
}

func TestRunScriptRejectsReservedName(t *testing.T) {
	path, dir := writeScript(t, `def configure():
    task("configure", cmds=["true"])
`)

	_, _, err := RunScript(testContext(), path, dir, nil, true)
	require.Error(t, err)
}

func TestRunScriptRequiresConfigure(t *testing.T) {
	path, dir := writeScript(t, `x = 1`)

	_, _, err := RunScript(testContext(), path, dir, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure")
}

func TestRunScriptEnvOverrides(t *testing.T) {
	path, dir := writeScript(t, `def configure():
    setenv("LSS_TEST_MARKER", "1")
    task("build", cmds=["true"], env={"EXTRA": "2"})
`)

	tasks, _, err := RunScript(testContext(), path, dir, nil, true)
	require.NoError(t, err)

	build := tasks["build"]
	assert.Equal(t, "1", build.Env["LSS_TEST_MARKER"])
	assert.Equal(t, "2", build.Env["EXTRA"])
}

func TestRunScriptTupleCmds(t *testing.T) {
	path, dir := writeScript(t, `def configure():
    task("build", cmds=[("FOO=bar", "echo", "hello world")])
`)

	tasks, _, err := RunScript(testContext(), path, dir, nil, true)
	require.NoError(t, err)

	require.Len(t, tasks["build"].Cmds, 1)
	script, ok := tasks["build"].Cmds[0].(TaskCmdScript)
	require.True(t, ok)
	assert.Contains(t, script.Content, "FOO=bar")
	assert.Contains(t, script.Content, "'hello world'")
}
