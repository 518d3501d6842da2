package leadclient

import (
	"io"
	"os"
	"strings"

	"github.com/mei-rune/properties"
	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const CfgRunMode = "runMode"
const DevRunMode = "dev"

var DefaultProductName = "leadform"
var DefaultURLPath = "leadform"
var Version = "v1"
var FullVersion = "v1.0.0"
var DefultConfigFilename = "leadform.properties"

type Environment struct {
	Logger *slog.Logger

	Namespace   string
	Name        string
	Version     string
	FullVersion string
	Config      *Config
	Fs          FileSystem
	RunMode     string

	// 当前应用的路径（后面有斜杠），不包括： 协议，IP ＋　端口
	AppPathWithSlash string
	// 当前应用的路径（后面没有斜杠），不包括： 协议，IP ＋　端口
	AppPathWithoutSlash string
}

func (env *Environment) IsDevMode() bool {
	return env.RunMode == DevRunMode
}

// NewEnvironmentWith 读配置文件并创建运行环境，配置的优先级（从低到高）:
//  1. defaultValues
//  2. <install>/conf/leadform.properties
//  3. <custom_conf>/leadform.properties
//  4. filename
func NewEnvironmentWith(namespace, filename string, defaultValues map[string]string) (*Environment, error) {
	fs, err := NewFileSystem(namespace, defaultValues)
	if err != nil {
		return nil, err
	}

	var nonexistfilenames, existfilenames []string

	var defaultFiles []string
	var customFiles []string
	defaultFiles = append(defaultFiles, fs.FromConfig(DefultConfigFilename))
	customFiles = append(customFiles, fs.FromCustomConfig(DefultConfigFilename))
	if filename != "" {
		customFiles = append(customFiles, filename)
	}

	var allProps = map[string]string{}
	for key, value := range defaultValues {
		allProps[key] = value
	}
	for _, names := range [][]string{
		defaultFiles,
		customFiles,
	} {
		for _, name := range names {
			props, err := properties.ReadProperties(name)
			if err != nil {
				if !os.IsNotExist(err) {
					return nil, err
				}
				nonexistfilenames = append(nonexistfilenames, name)
				continue
			}
			existfilenames = append(existfilenames, name)
			for key, value := range props {
				allProps[key] = value
			}
		}
	}
	initFsWithConfig(fs, namespace, allProps)
	cfg := NewConfigWith(allProps)

	logger := NewLogger(namespace, cfg, fs, nil)
	if logger.Enabled(nil, slog.LevelDebug) {
		logger.Debug("load config successful",
			slog.Any("existnames", existfilenames),
			slog.Any("nonexistnames", nonexistfilenames))
	}

	env := NewEnvironment(namespace, cfg, fs, logger)
	return env, nil
}

func NewEnvironment(namespace string, cfg *Config, fs FileSystem, logger *slog.Logger) *Environment {
	appURL := cfg.StringWithDefault("app.urlpath", DefaultURLPath)
	if !strings.HasPrefix(appURL, "/") {
		appURL = "/" + appURL
	}
	appURL = strings.TrimSuffix(appURL, "/")

	env := &Environment{
		Logger:              logger,
		Namespace:           namespace,
		Name:                cfg.StringWithDefault("product.name", DefaultProductName),
		Config:              cfg,
		Fs:                  fs,
		Version:             Version,
		FullVersion:         FullVersion,
		AppPathWithoutSlash: appURL,
		AppPathWithSlash:    appURL + "/",
		RunMode:             cfg.StringWithDefault(namespace+"."+CfgRunMode, ""),
	}
	if env.RunMode == "" {
		env.RunMode = os.Getenv(namespace + "_run_mode")
	}
	return env
}

func Urljoin(a, b string) string {
	if strings.HasSuffix(a, "/") {
		if strings.HasPrefix(b, "/") {
			return a + b[1:]
		}
		return a + b
	}
	if strings.HasPrefix(b, "/") {
		return a + b
	}
	return a + "/" + b
}

func NewLogger(namespace string, cfg *Config, fs FileSystem, levelVar *slog.LevelVar) *slog.Logger {
	var out io.Writer
	if filename := cfg.StringWithDefault("log.filename", namespace+".log"); filename == "console" {
		out = os.Stderr
	} else if filename == "stdout" {
		out = os.Stdout
	} else if filename == "stderr" {
		out = os.Stderr
	} else {
		out = &lumberjack.Logger{
			Filename:   fs.FromLogDir(filename),
			MaxSize:    cfg.IntWithDefault("log.maxsize", 5),
			MaxAge:     cfg.IntWithDefault("log.maxage", 1),
			MaxBackups: cfg.IntWithDefault("log.max_backups", 5),
			LocalTime:  cfg.BoolWithDefault("log.local_time", true),
			Compress:   cfg.BoolWithDefault("log.compress", true),
		}
	}

	levelStr := cfg.StringWithDefault("log.level", "")
	level, unkownLevel := ParseLevel(levelStr)

	var programLevel slog.Leveler = level
	if levelVar != nil {
		levelVar.Set(level)
		programLevel = levelVar
	}

	h := slog.NewJSONHandler(out,
		&slog.HandlerOptions{Level: programLevel})
	logger := slog.New(h)
	if unkownLevel {
		logger.Warn("log level is invalid", slog.String("value", levelStr))
	}
	return logger
}

// ParseLevel 未知的级别返回 info，并且第二个返回值为 true
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, false
	case "warn":
		return slog.LevelWarn, false
	case "error":
		return slog.LevelError, false
	case "info", "":
		return slog.LevelInfo, false
	default:
		return slog.LevelInfo, true
	}
}
