package buildsys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTasks(t *testing.T, script string) (TaskList, string) {
	t.Helper()

	path, dir := writeScript(t, script)
	tasks, _, err := RunScript(testContext(), path, dir, nil, true)
	require.NoError(t, err)
	return tasks, dir
}

func countRuns(t *testing.T, dir string) int {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	if err != nil {
		require.ErrorIs(t, err, os.ErrNotExist)
		return 0
	}
	return strings.Count(string(content), "run")
}

func TestRunTaskExecutesCommands(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("build", cmds=["echo hello > out.txt"])
`)

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRunTaskUnknownTask(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("build", cmds=["true"])
`)

	err := RunTask(testContext(), dir, "missing", tasks, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunTaskSkipsWhenUpToDate(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task(
        "build",
        inputs=["src.txt"],
        outputs=["out.txt"],
        cmds=["cp src.txt out.txt", "echo run >> log.txt"],
    )
`)

	srcPath := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("data"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(srcPath, past, past))

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))
	assert.Equal(t, 1, countRuns(t, dir))

	// output is newer than the input now, nothing to do
	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))
	assert.Equal(t, 1, countRuns(t, dir))

	// --force overrides the up-to-date check
	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, true))
	assert.Equal(t, 2, countRuns(t, dir))
}

func TestRunTaskRebuildsOnChange(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task(
        "build",
        inputs=["src.txt"],
        outputs=["out.txt"],
        cmds=["cp src.txt out.txt", "echo run >> log.txt"],
    )
`)

	srcPath := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("data"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(srcPath, past, past))

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))
	assert.Equal(t, 1, countRuns(t, dir))

	// touching the input has to trigger a rebuild
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(srcPath, future, future))

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))
	assert.Equal(t, 2, countRuns(t, dir))
}

func TestRunTaskPhonyAlwaysRuns(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task(
        "check",
        phony=True,
        skip_if_exists=["check"],
        cmds=["echo run >> log.txt"],
    )
`)

	// a file with the task's name must not prevent execution
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check"), []byte{}, 0o644))

	require.NoError(t, RunTask(testContext(), dir, "check", tasks, false, false))
	require.NoError(t, RunTask(testContext(), dir, "check", tasks, false, false))
	assert.Equal(t, 2, countRuns(t, dir))
}

func TestRunTaskSkipIfExists(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task(
        "setup",
        skip_if_exists=["marker.txt"],
        cmds=["echo run >> log.txt"],
    )
`)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte{}, 0o644))

	require.NoError(t, RunTask(testContext(), dir, "setup", tasks, false, false))
	assert.Equal(t, 0, countRuns(t, dir))
}

func TestRunTaskDepsRunFirst(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("dep", cmds=["echo dep >> order.txt"])
    task("main", deps=["dep"], cmds=["echo main >> order.txt"])
`)

	require.NoError(t, RunTask(testContext(), dir, "main", tasks, false, false))

	content, err := os.ReadFile(filepath.Join(dir, "order.txt"))
	require.NoError(t, err)
	assert.Equal(t, "dep\nmain\n", string(content))
}

func TestRunTaskDetectsRecursion(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("a", deps=["b"], cmds=["true"])
    task("b", deps=["a"], cmds=["true"])
`)

	err := RunTask(testContext(), dir, "a", tasks, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursively")
}

func TestRunTaskDryRun(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("build", cmds=["echo run >> log.txt"])
`)

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, true, false))
	assert.Equal(t, 0, countRuns(t, dir))
}

func TestRunTaskExitStatus(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    task("fail", cmds=["exit 3"])
`)

	err := RunTask(testContext(), dir, "fail", tasks, false, false)
	require.Error(t, err)

	code, ok := ExitStatus(err)
	require.True(t, ok)
	assert.Equal(t, uint8(3), code)
}

func TestRunTaskRefRunsReferencedTask(t *testing.T) {
	tasks, dir := parseTasks(t, `def configure():
    prep = task(hidden=True, cmds=["echo prep >> order.txt"])
    task("build", cmds=[prep, "echo build >> order.txt"])
`)

	require.NoError(t, RunTask(testContext(), dir, "build", tasks, false, false))

	content, err := os.ReadFile(filepath.Join(dir, "order.txt"))
	require.NoError(t, err)
	assert.Equal(t, "prep\nbuild\n", string(content))
}
