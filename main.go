package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	chatapi "chatbot/chat-api"
	"chatbot/config"
	"chatbot/db"
	"chatbot/log"
	"chatbot/rpc"
	selfdriving "chatbot/self-driving"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	OriginCommandHelpTemplate = `{{.Name}}{{if .Subcommands}} command{{end}}{{if .Flags}} [command options]{{end}} {{.ArgsUsage}}
{{if .Description}}{{.Description}}
{{end}}{{if .Subcommands}}
SUBCOMMANDS:
  {{range .Subcommands}}{{.Name}}{{with .ShortName}}, {{.}}{{end}}{{ "\t" }}{{.Usage}}
  {{end}}{{end}}{{if .Flags}}
OPTIONS:
{{range $.Flags}}   {{.}}
{{end}}
{{end}}`
)
var app *cli.App

var (
	configPathFlag = cli.StringFlag{
		Name:  "config",
		Usage: "config path",
		Value: "./config.yml",
	}
	logLevelFlag = cli.IntFlag{
		Name:  "log",
		Usage: "log level (0 debug, 1 info, 2 warn, 3 error)",
		Value: log.InfoLog,
	}
	logFilePath = cli.StringFlag{
		Name:  "logPath",
		Usage: "log root path",
		Value: "./logs",
	}
)

func init() {
	app = cli.NewApp()
	app.Name = "chatbot"
	app.Usage = "relay chat messages to a generative model and keep the history"
	app.Version = "v1.0.0"
	app.Commands = []cli.Command{
		commandStart,
	}

	cli.CommandHelpTemplate = OriginCommandHelpTemplate
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var commandStart = cli.Command{
	Name:  "start",
	Usage: "start the chat relay server",
	Flags: []cli.Flag{
		configPathFlag,
		logLevelFlag,
		logFilePath,
	},
	Action: Start,
}

func Start(ctx *cli.Context) error {
	logFile, err := openLogFile(ctx.String(logFilePath.Name))
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.InitLog(ctx.Int(logLevelFlag.Name), logFile)

	conf, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err = conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	generator, err := newGenerator(conf.Generator)
	if err != nil {
		return err
	}
	store, err := db.Open(context.Background(), conf.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), conf.Store.Timeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("close store", "error", err)
		}
	}()
	log.Info("chatbot configured",
		"provider", conf.Generator.Provider,
		"model", conf.Generator.Model,
		"store", conf.Store.Driver)

	svc := rpc.NewService(generator, store, conf.Generator.Timeout, conf.Store.Timeout)
	server := rpc.NewServer(svc, conf.Host, conf.Port, conf.PublicDir)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- server.Start(runCtx)
	}()

	select {
	case err = <-done:
		return err
	case sig := <-waitToExit():
		log.Info("received exit signal", "signal", sig.String())
	}
	cancel()
	return <-done
}

func openLogFile(logPath string) (*os.File, error) {
	filename := fmt.Sprintf("chatbot_%v.log", strings.ReplaceAll(time.Now().Format("2006-01-02 15:04:05"), " ", "_"))
	if err := os.MkdirAll(logPath, 0o755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(logPath, filename))
}

// loadConfig reads --config when given, falls back to the default path when
// that file exists, and otherwise relies on defaults plus environment.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.String(configPathFlag.Name)
	if !ctx.IsSet(configPathFlag.Name) {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	return config.Load(path)
}

func newGenerator(c config.GeneratorConfig) (rpc.Generator, error) {
	switch c.Provider {
	case config.ProviderGemini, config.ProviderOpenAI:
		return chatapi.NewClient(c.Provider, c.APIKey, c.BaseURL, c.Model), nil
	case config.ProviderHTTP:
		return selfdriving.NewClient(c.URL, c.Model), nil
	}
	return nil, fmt.Errorf("unknown generator provider %q", c.Provider)
}

func waitToExit() <-chan os.Signal {
	sc := make(chan os.Signal, 1)
	if !signal.Ignored(syscall.SIGHUP) {
		signal.Notify(sc, syscall.SIGHUP)
	}
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	return sc
}
