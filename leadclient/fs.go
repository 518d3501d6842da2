package leadclient

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var isWindows = runtime.GOOS == "windows"

// Returns same path as Executable, returns just the folder
// path. Excludes the executable name and any trailing slash.
func ExecutableFolder() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Dir(p), nil
}

// FileSystem 运行环境中文件系统的抽象
type FileSystem interface {
	FromInstallRoot(s ...string) string
	FromData(s ...string) string
	FromTMP(s ...string) string
	FromConfig(s ...string) string
	FromLogDir(s ...string) string
	FromCustomConfig(s ...string) string
	SearchConfig(s ...string) []string
}

type linuxFs struct {
	installDir  string
	logDir      string
	dataDir     string
	dataConfDir string
	tmpDir      string
}

func (fs *linuxFs) FromInstallRoot(s ...string) string {
	return filepath.Join(fs.installDir, filepath.Join(s...))
}

func (fs *linuxFs) Set(key, s string) {
	switch key {
	case "install":
		fs.installDir = s
	case "log":
		fs.logDir = s
	case "data":
		fs.dataDir = s
	case "custom_conf":
		fs.dataConfDir = s
	case "tmp":
		fs.tmpDir = s
	}
}

func (fs *linuxFs) FromData(s ...string) string {
	return filepath.Join(fs.dataDir, filepath.Join(s...))
}

func (fs *linuxFs) FromTMP(s ...string) string {
	return filepath.Join(fs.tmpDir, filepath.Join(s...))
}

func (fs *linuxFs) FromConfig(s ...string) string {
	return filepath.Join(fs.installDir, "conf", filepath.Join(s...))
}

func (fs *linuxFs) FromCustomConfig(s ...string) string {
	return filepath.Join(fs.dataConfDir, filepath.Join(s...))
}

func (fs *linuxFs) FromLogDir(s ...string) string {
	return filepath.Join(fs.logDir, filepath.Join(s...))
}

// SearchConfig 依次在安装目录和自定义配置目录中查找，返回存在的文件
func (fs *linuxFs) SearchConfig(s ...string) []string {
	var files []string
	for _, nm := range []string{
		fs.FromConfig(filepath.Join(s...)),
		fs.FromCustomConfig(filepath.Join(s...)),
	} {
		if st, err := os.Stat(nm); err == nil && !st.IsDir() {
			files = append(files, nm)
		} else if err != nil && os.IsPermission(err) {
			panic(err)
		}
	}
	return files
}

func NewFileSystem(namespace string, params map[string]string) (*linuxFs, error) {
	var fs *linuxFs

	var rootDir = os.Getenv(namespace + "_root_dir")
	if params != nil {
		if s := params[namespace+"_root_dir"]; s != "" {
			rootDir = s
		}
	}

	if rootDir == "<default>" || rootDir == "." {
		// "<default>" 作为一个特殊的字符，自动使用当前目录
		if cwd, e := os.Getwd(); nil == e {
			rootDir = cwd
		} else {
			rootDir = "."
		}
	}

	switch {
	case isWindows || (rootDir != "" && !strings.HasPrefix(rootDir, "/opt/")):
		if rootDir == "" {
			exeDir, _ := ExecutableFolder()
			rootDir = filepath.Clean(filepath.Join(exeDir, ".."))
		}
		fs = &linuxFs{
			installDir:  rootDir,
			logDir:      filepath.Join(rootDir, "logs"),
			dataDir:     filepath.Join(rootDir, "data"),
			dataConfDir: filepath.Join(rootDir, "data", "conf"),
			tmpDir:      filepath.Join(rootDir, "data", "tmp"),
		}
	case strings.HasPrefix(rootDir, "/opt/"):
		fs = &linuxFs{
			installDir:  filepath.Join(rootDir, "/install"),
			logDir:      filepath.Join(rootDir, "/logs"),
			dataDir:     filepath.Join(rootDir, "/data"),
			dataConfDir: filepath.Join(rootDir, "/conf"),
			tmpDir:      filepath.Join(rootDir, "/tmp"),
		}
	default:
		fs = &linuxFs{
			installDir:  "/usr/local/" + namespace,
			logDir:      "/var/log/" + namespace,
			dataDir:     "/var/lib/" + namespace,
			dataConfDir: "/etc/" + namespace,
			tmpDir:      filepath.Join(os.TempDir(), namespace),
		}
	}

	for _, key := range []string{"install", "data", "custom_conf", "log", "tmp"} {
		if s := os.Getenv(namespace + "_" + key + "_dir"); s != "" {
			fs.Set(key, s)
		}
	}

	if params != nil {
		initFsWithConfig(fs, namespace, params)
	}
	return fs, nil
}

func initFsWithConfig(fs *linuxFs, namespace string, params map[string]string) {
	if s := params[namespace+"_install_dir"]; s != "" {
		fs.Set("install", s)
	}
	if s := params[namespace+"_data_dir"]; s != "" {
		fs.Set("data", s)
		if isWindows {
			fs.Set("custom_conf", filepath.Join(fs.dataDir, "conf"))
			fs.Set("tmp", filepath.Join(fs.dataDir, "tmp"))
		}
	}
	if s := params[namespace+"_custom_conf_dir"]; s != "" {
		fs.Set("custom_conf", s)
	}
	if logDir := params[namespace+"_log_dir"]; logDir != "" {
		fs.Set("log", logDir)
	}
	if tmpDir := params[namespace+"_tmp_dir"]; tmpDir != "" {
		fs.Set("tmp", tmpDir)
	}
}
