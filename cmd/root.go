package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/josexy/logx"
	"github.com/josexy/sockswire/config"
	"github.com/josexy/sockswire/util/logger"
	"github.com/spf13/cobra"
)

var (
	Version   = ""
	GitCommit = ""
)

var rootCmd = &cobra.Command{
	Use:     "sockswire",
	Short:   "socks5 proxy server with proxy-protocol v2 support",
	Version: Version,
}

var (
	configFile string
	cfg        = &config.Config{
		Server: &config.ServerConfig{},
		Log:    &config.LogConfig{VerboseLevel: 1},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "server configuration file")
	rootCmd.PersistentFlags().StringVarP(&cfg.Server.Listen, "listen", "l", ":1080", "listen address")
	rootCmd.PersistentFlags().BoolVar(&cfg.Server.Udp, "udp", false, "enable udp associate")
	rootCmd.PersistentFlags().BoolVar(&cfg.Server.ProxyProtocol, "proxy-protocol", false, "expect a proxy protocol v2 preamble on accepted connections")
	rootCmd.PersistentFlags().BoolVar(&cfg.Server.HttpFallback, "http-fallback", false, "serve http connect clients on the same port")
	// logger options
	rootCmd.PersistentFlags().BoolVarP(&cfg.Log.Color, "color", "C", false, "enable output color mode")
	rootCmd.PersistentFlags().StringVarP(&cfg.Log.LogLevel, "level", "L", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVarP(&cfg.Log.VerboseLevel, "verbose-level", "V", 1, "verbose output level (0, 1, 2)")
}

func initConfig() {
	// overwrite default options if use config file
	if configFile != "" {
		var err error
		cfg, err = config.ParseConfigFile(configFile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	// disable logger
	if cfg.Log == nil || cfg.Log.VerboseLevel == 0 {
		logger.Logger = logx.NewLogContext().BuildConsoleLogger(logx.LevelTrace)
		return
	}

	var writer io.Writer = os.Stdout
	if cfg.Log.Color {
		writer = color.Output
	}
	logCtx := logx.NewLogContext().
		WithColor(cfg.Log.Color).
		WithTime(true, func(t time.Time) any { return t.Format(time.TimeOnly) }).
		WithLevel(true, true).
		WithEncoder(logx.Json).
		WithEscapeQuote(true).
		WithWriter(writer)
	if cfg.Log.VerboseLevel >= 2 {
		logCtx.WithCaller(true, true, false, true).
			WithTime(true, func(t time.Time) any { return t.Format(time.DateTime) })
	}

	var logLevel logx.LevelType
	switch cfg.Log.LogLevel {
	case "trace":
		logLevel = logx.LevelTrace
	case "debug":
		logLevel = logx.LevelDebug
	case "warn":
		logLevel = logx.LevelWarn
	case "error":
		logLevel = logx.LevelError
	case "fatal":
		logLevel = logx.LevelFatal
	case "panic":
		logLevel = logx.LevelPanic
	default:
		logLevel = logx.LevelInfo
	}
	logger.Logger = logCtx.BuildConsoleLogger(logLevel)
}
