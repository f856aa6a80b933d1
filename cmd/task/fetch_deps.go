package main

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

type depSpec struct {
	Condition  string `yaml:"if,omitempty"`
	Rejections string `yaml:"ifNot,omitempty"`
	URL        string
	Dest       string
	Sha256     string
	Strip      int
	MarkExec   []string `yaml:"markExec,omitempty"`
}

type depConfig struct {
	Vars map[string]string
	Deps map[string]depSpec
}

var fetchDepsCmd = &cobra.Command{
	Use:   "fetch-deps",
	Short: "Downloads and unpacks pinned development tools",
	Long:  `Downloads and unpacks the dependencies listed in DEPS.yml next to tasks.star. Checksums are verified and already unpacked dependencies are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		update, err := cmd.Flags().GetBool("update")
		if err != nil {
			return err
		}

		printTask("Loading config")
		taskPath, err := findTaskFile()
		if err != nil {
			return err
		}
		root, err := filepath.Abs(filepath.Dir(taskPath))
		if err != nil {
			return err
		}

		cfg, stamps, err := getDepConfig(root)
		if err != nil {
			return err
		}

		printTask("Downloading dependencies")
		err = downloadAndExtract(cfg, stamps, root, update)

		stampPath := filepath.Join(root, "DEPS.stamps")
		stampData, jErr := json.Marshal(stamps)
		if jErr == nil {
			jErr = os.WriteFile(stampPath, stampData, os.FileMode(0660))
		}
		if jErr != nil {
			printError(jErr.Error())
		}

		if err == nil {
			printTask("Done")
		}
		return err
	},
}

func init() {
	fetchDepsCmd.Flags().BoolP("update", "u", false, "print new checksums instead of failing on mismatches")
	rootCmd.AddCommand(fetchDepsCmd)
}

func printTask(msg string) {
	colorstring.Printf("[blue][bold]==>[default] %s\n", msg)
}

func printSubtask(msg string) {
	colorstring.Printf("[green][bold]  ->[reset] %s\n", msg)
}

func printError(msg string) {
	colorstring.Printf("[red][bold]  ->[reset] %s\n", msg)
}

func getDepConfig(projectRoot string) (depConfig, map[string]string, error) {
	var cfg depConfig
	cfgPath := filepath.Join(projectRoot, "DEPS.yml")
	cfgData, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, nil, eris.Wrapf(err, "could not open file %s", cfgPath)
	}

	err = yaml.Unmarshal(cfgData, &cfg)
	if err != nil {
		return cfg, nil, eris.Wrapf(err, "failed to parse %s", cfgPath)
	}

	stamps := map[string]string{}
	stampPath := filepath.Join(projectRoot, "DEPS.stamps")
	stampData, err := os.ReadFile(stampPath)
	if err != nil {
		if !eris.Is(err, os.ErrNotExist) {
			return cfg, nil, eris.Wrapf(err, "failed to read stamps file %s", stampPath)
		}
	} else {
		err = json.Unmarshal(stampData, &stamps)
		if err != nil {
			return cfg, nil, eris.Wrapf(err, "failed to parse JSON file %s", stampPath)
		}
	}

	return cfg, stamps, nil
}

var depVarPattern = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// evalConditions substitutes {VAR} placeholders in the URL and evaluates the
// if / ifNot variable lists.
func evalConditions(meta *depSpec, vars map[string]string) bool {
	meta.URL = depVarPattern.ReplaceAllStringFunc(meta.URL, func(varName string) string {
		return vars[varName[1:len(varName)-1]]
	})

	for _, condition := range strings.Split(meta.Condition, ",") {
		if condition == "" {
			continue
		}

		value, ok := vars[strings.TrimSpace(condition)]
		if !ok || value == "" {
			return false
		}
	}

	for _, condition := range strings.Split(meta.Rejections, ",") {
		if condition == "" {
			continue
		}

		value, ok := vars[strings.TrimSpace(condition)]
		if ok && value != "" {
			return false
		}
	}
	return true
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}

func downloadAndExtract(cfg depConfig, stamps map[string]string, projectRoot string, update bool) error {
	client := &http.Client{
		Timeout: time.Minute * 30,
	}

	vars := cfg.Vars
	if vars == nil {
		vars = map[string]string{}
	}
	vars[runtime.GOARCH] = "true"
	vars[runtime.GOOS] = "true"
	if os.Getenv("CI") == "true" {
		vars["ci"] = "true"
	}

	for name, meta := range cfg.Deps {
		if !evalConditions(&meta, vars) {
			continue
		}

		destPath := filepath.Join(projectRoot, meta.Dest)
		destInfo, err := os.Stat(destPath)
		destExists := err == nil

		stampToken := meta.URL + "#" + meta.Sha256
		stamp, ok := stamps[name]
		if ok && stampToken == stamp && destExists {
			continue
		}

		printSubtask(name + ":  " + meta.URL)
		if meta.Sha256 == "" && !update {
			return eris.Errorf("dependency %s doesn't have a checksum", name)
		}

		arHandle, err := os.CreateTemp(projectRoot, "deps_dl_*.tmp")
		if err != nil {
			return eris.Wrap(err, "failed to create download file")
		}
		defer func() {
			arHandle.Close()
			os.Remove(arHandle.Name())
		}()

		resp, err := client.Get(meta.URL)
		if err != nil {
			return eris.Wrapf(err, "failed to start download for %s", meta.URL)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return eris.Errorf("download of %s failed with status %s", meta.URL, resp.Status)
		}

		hash := sha256.New()
		bar := getProgressBar(resp.ContentLength, "     download")
		_, err = io.Copy(io.MultiWriter(arHandle, hash, bar), resp.Body)
		if err != nil {
			return eris.Wrapf(err, "failed during download of %s", meta.URL)
		}
		bar.Finish()
		resp.Body.Close()

		digest := hex.EncodeToString(hash.Sum(nil))
		if digest != meta.Sha256 {
			if !update {
				return eris.Errorf("checksum check failed for %s", name)
			}
			fmt.Printf("      new checksum for %s: %s\n", name, digest)
		}

		if destExists {
			printSubtask(fmt.Sprintf("Remove %s", destPath))
			if destInfo.IsDir() {
				err = os.RemoveAll(destPath)
			} else {
				err = os.Remove(destPath)
			}
			if err != nil {
				return err
			}
		}

		extractor, err := getExtractor(meta.URL)
		if err != nil {
			return err
		}

		if _, err := arHandle.Seek(0, io.SeekStart); err != nil {
			return eris.Wrap(err, "failed to rewind download file")
		}

		err = extractor(arHandle, projectRoot, meta)
		if err != nil {
			return err
		}

		if runtime.GOOS != "windows" {
			// .zip files don't carry permissions; binaries listed in markExec
			// are fixed up manually
			for _, binPath := range meta.MarkExec {
				binPath = filepath.Join(projectRoot, meta.Dest, binPath)
				fi, err := os.Stat(binPath)
				if err != nil {
					return eris.Wrapf(err, "failed to read permissions for %s", binPath)
				}

				err = os.Chmod(binPath, fi.Mode()|0700)
				if err != nil {
					return eris.Wrapf(err, "failed to mark %s as executable", binPath)
				}
			}
		}

		stamps[name] = stampToken
	}

	return nil
}

type archiveExtractor func(*os.File, string, depSpec) error

// openExtractorDest normalizes the archive member path, strips the leading
// ds.Strip elements and creates the destination file.
func openExtractorDest(destPath string, item string, ds depSpec) (*os.File, string, error) {
	pathParts := strings.Split(filepath.Clean(item), string(filepath.Separator))
	if len(pathParts) <= ds.Strip {
		return nil, "", nil
	}

	dest := filepath.Join(destPath, strings.Join(pathParts[ds.Strip:], string(filepath.Separator)))
	if dest == destPath {
		return nil, "", nil
	}

	destParent := filepath.Dir(dest)
	err := os.MkdirAll(destParent, os.FileMode(0770))
	if err != nil {
		return nil, "", eris.Wrapf(err, "failed to create directory %s", destParent)
	}

	destHandle, err := os.Create(dest)
	if err != nil {
		return nil, "", eris.Wrapf(err, "failed to create file %s", dest)
	}

	return destHandle, dest, nil
}

func getExtractor(url string) (archiveExtractor, error) {
	if strings.HasSuffix(url, ".zip") {
		return extractZip, nil
	}

	if strings.HasSuffix(url, ".tar.gz") {
		return func(f *os.File, projectRoot string, ds depSpec) error {
			reader, err := gzip.NewReader(f)
			if err != nil {
				return err
			}
			defer reader.Close()

			return extractTar(reader, projectRoot, ds)
		}, nil
	}

	if strings.HasSuffix(url, ".tar.bz2") {
		return func(f *os.File, projectRoot string, ds depSpec) error {
			return extractTar(bzip2.NewReader(f), projectRoot, ds)
		}, nil
	}

	if strings.HasSuffix(url, ".tar.xz") {
		return func(f *os.File, projectRoot string, ds depSpec) error {
			reader, err := xz.NewReader(f)
			if err != nil {
				return err
			}

			return extractTar(reader, projectRoot, ds)
		}, nil
	}

	return nil, eris.New("archive format not supported")
}

func extractZip(f *os.File, projectRoot string, ds depSpec) error {
	stat, err := f.Stat()
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return err
	}

	destPath := filepath.Join(projectRoot, ds.Dest)
	for _, item := range archive.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}

		destHandle, dest, err := openExtractorDest(destPath, item.Name, ds)
		if err != nil {
			return err
		}
		if destHandle == nil {
			continue
		}

		itemHandle, err := item.Open()
		if err != nil {
			destHandle.Close()
			return eris.Wrap(err, "failed to open archive entry")
		}

		_, err = io.Copy(destHandle, itemHandle)
		itemHandle.Close()
		destHandle.Close()
		if err != nil {
			return eris.Wrapf(err, "failed to write extracted file %s", dest)
		}
	}

	return nil
}

func extractTar(r io.Reader, projectRoot string, ds depSpec) error {
	archive := tar.NewReader(r)
	destPath := filepath.Join(projectRoot, ds.Dest)

	for {
		item, err := archive.Next()
		if err != nil {
			if err == io.EOF {
				break
			}

			return eris.Wrap(err, "failed to read archive entry")
		}

		fi := item.FileInfo()
		if fi.IsDir() {
			continue
		}

		destHandle, dest, err := openExtractorDest(destPath, item.Name, ds)
		if err != nil {
			return err
		}
		if destHandle == nil {
			continue
		}

		if item.Typeflag == tar.TypeSymlink {
			destHandle.Close()
			err := os.Remove(dest)
			if err != nil {
				return eris.Wrapf(err, "failed to remove placeholder file %s", dest)
			}

			err = os.Symlink(item.Linkname, dest)
			if err != nil {
				return eris.Wrapf(err, "failed to create symlink %s pointing to %s", dest, item.Linkname)
			}
			continue
		}

		_, err = io.Copy(destHandle, archive)
		destHandle.Close()
		if err != nil {
			return eris.Wrapf(err, "failed to write extracted file %s", dest)
		}

		os.Chmod(dest, fi.Mode())
	}

	return nil
}
