// Command task is the build entry point for this repository. It parses the
// first tasks.star file found upwards from the working directory and runs
// the requested tasks (or the default task when none are named).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nobel-von-it/lss/pkg/buildsys"
)

const cacheName = ".task-cache"

var rootCmd = &cobra.Command{
	Use:           "task [flags] [task...] [key=value...]",
	Short:         "Task runner for the lss project",
	Long:          `This command parses the first tasks.star file it finds and executes the given tasks. key=value arguments set script options; options are remembered between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskArgs := make([]string, 0)
		options := make(map[string]string)
		for _, part := range args {
			pos := strings.Index(part, "=")
			if pos > -1 {
				options[part[:pos]] = part[pos+1:]
			} else {
				taskArgs = append(taskArgs, part)
			}
		}

		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		listOnly, err := cmd.Flags().GetBool("list")
		if err != nil {
			return err
		}

		logger := zerolog.New(NewConsoleWriter())
		ctx := buildsys.WithLogger(context.Background(), &logger)

		taskPath, err := findTaskFile()
		if err != nil {
			logger.Fatal().Err(err).Msg("No tasks.star file found")
		}

		projectRoot := filepath.Dir(taskPath)
		taskList, err := loadTasks(ctx, taskPath, projectRoot, options)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to parse tasks")
		}

		if listOnly {
			printTaskList(taskList)
			return nil
		}

		if len(taskArgs) == 0 {
			defaultTask := taskList.DefaultTask()
			if defaultTask == nil {
				printTaskList(taskList)
				return nil
			}

			taskArgs = []string{defaultTask.Short}
		}

		for _, name := range taskArgs {
			err = buildsys.RunTask(ctx, projectRoot, name, taskList, dryRun, force)
			if err != nil {
				logger.Error().Err(err).Msgf("Failed task %s", name)

				if code, ok := buildsys.ExitStatus(err); ok {
					os.Exit(int(code))
				}
				os.Exit(1)
			}
		}

		return nil
	},
}

// findTaskFile searches for the next tasks.star file, starting in the
// working directory and walking up.
func findTaskFile() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", eris.Wrap(err, "failed to retrieve the current working directory")
	}

	path := wd
	for {
		taskPath := filepath.Join(path, "tasks.star")
		_, err := os.Stat(taskPath)
		if err == nil {
			return filepath.Rel(wd, taskPath)
		}
		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "failed to check %s", taskPath)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", eris.New("no tasks.star file found")
		}

		path = parent
	}
}

// loadTasks returns the parsed task list. Results are cached next to
// tasks.star together with the used options; the cache is reused as long as
// the script hasn't changed and no new options were passed.
func loadTasks(ctx context.Context, taskPath, projectRoot string, cliOptions map[string]string) (buildsys.TaskList, error) {
	cachePath := filepath.Join(projectRoot, cacheName)

	options := map[string]string{}
	cachedOptions, cachedTasks, err := buildsys.ReadCache(cachePath)
	if err == nil {
		for k, v := range cachedOptions {
			options[k] = v
		}

		if len(cliOptions) == 0 && cachedTasks != nil {
			scriptInfo, sErr := os.Stat(taskPath)
			cacheInfo, cErr := os.Stat(cachePath)
			if sErr == nil && cErr == nil && cacheInfo.ModTime().After(scriptInfo.ModTime()) {
				return cachedTasks, nil
			}
		}
	}

	for k, v := range cliOptions {
		options[k] = v
	}

	taskList, _, err := buildsys.RunScript(ctx, taskPath, projectRoot, options, true)
	if err != nil {
		return nil, err
	}

	if err := buildsys.WriteCache(cachePath, options, taskList); err != nil {
		// a broken cache only costs us the next parse
		os.Remove(cachePath)
	}

	return taskList, nil
}

func printTaskList(taskList buildsys.TaskList) {
	fmt.Println("Available tasks:")

	maxNameLen := 0
	sortedNames := make([]string, 0, len(taskList))
	for _, task := range taskList {
		if len(task.Short) > maxNameLen {
			maxNameLen = len(task.Short)
		}

		sortedNames = append(sortedNames, task.Short)
	}

	sort.Strings(sortedNames)

	lineFmt := fmt.Sprintf(" * %%-%ds %%s%%s\n", maxNameLen+3)
	for _, name := range sortedNames {
		task := taskList[name]
		marker := ""
		if task.Default {
			marker = " (default)"
		}
		fmt.Printf(lineFmt, name+":", task.Desc, marker)
	}
}

func init() {
	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	rootCmd.Flags().BoolP("force", "f", false, "force build; always execute the passed tasks even if they don't have to run")
	rootCmd.Flags().BoolP("list", "T", false, "list the available tasks and exit")
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
