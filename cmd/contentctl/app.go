package main

import (
	"fmt"
	"os"

	"github.com/campusgrid/cms-core/internal/config"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/logging"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	metaClient = "client"
	metaLogger = "logger"
	metaConfig = "config"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "contentctl"
	app.Usage = "edit college, course and location pages through the content API"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML config file, only the client section is read",
			Value: config.DefaultConfigPath,
		},
		cli.StringFlag{
			Name:   "base-url",
			EnvVar: "CMS_API_URL",
			Usage:  "content API base, e.g. http://localhost:8080/api/v1",
		},
		cli.StringFlag{
			Name:   "token",
			EnvVar: "CMS_API_TOKEN",
			Usage:  "bearer token issued by `server -issue-token`",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level for diagnostics on stderr",
			Value: "warn",
		},
	}
	app.Before = setup
	app.Commands = []cli.Command{
		{
			Name:   "sections",
			Usage:  "list the editable sections of a college page",
			Action: listSections,
		},
		{
			Name:   "course-types",
			Usage:  "list course types",
			Action: listCourseTypes,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "status", Usage: "active or inactive, empty for all", Value: "active"},
			},
		},
		{
			Name:   "locations",
			Usage:  "list the cities and states offering a course type",
			Action: listLocations,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "course", Usage: "course type slug"},
			},
		},
		{
			Name:   "show",
			Usage:  "print the content stored under a key",
			Before: validateTarget,
			Action: show,
			Flags:  targetFlags(),
		},
		{
			Name:   "edit",
			Usage:  "load, change and save the content under a key",
			Before: validateTarget,
			Action: edit,
			Flags:  append(targetFlags(), editFlags()...),
		},
	}
	return app
}

// setup builds the API client from the config file, overridden by flags.
func setup(c *cli.Context) error {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	errw := c.App.ErrWriter
	if errw == nil {
		errw = os.Stderr
	}
	logger, err := logging.Console(errw, c.String("log-level"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	baseURL, token := cfg.Client.BaseURL, cfg.Client.Token
	if v := c.String("base-url"); v != "" {
		baseURL = v
	}
	if v := c.String("token"); v != "" {
		token = v
	}

	c.App.Metadata = map[string]interface{}{
		metaConfig: cfg,
		metaLogger: logger,
		metaClient: adminapi.New(baseURL, token,
			adminapi.WithTimeout(cfg.Client.Timeout()),
			adminapi.WithLogger(logger.Named("api")),
		),
	}
	return nil
}

func clientOf(c *cli.Context) *adminapi.Client {
	return c.App.Metadata[metaClient].(*adminapi.Client)
}

func loggerOf(c *cli.Context) *zap.Logger {
	return c.App.Metadata[metaLogger].(*zap.Logger)
}

func configOf(c *cli.Context) *config.AppConfig {
	return c.App.Metadata[metaConfig].(*config.AppConfig)
}

func out(c *cli.Context, format string, args ...interface{}) {
	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}
