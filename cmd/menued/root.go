package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mchmarny/menued/pkg/config"
	"github.com/mchmarny/menued/pkg/logger"
)

const appName = "menued"

// app carries the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          appName,
		Short:        "Hierarchical menu editing service",
		Long:         "menued serves an editable menu tree over HTTP and inspects menu seed files.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/menued/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or text")
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	root.AddCommand(
		a.newServeCmd(),
		a.newValidateCmd(),
		a.newFlattenCmd(),
		a.newShowCmd(),
		a.newProjectCmd(),
		newVersionCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.SetDefault(logger.Config{
		Module:  appName,
		Version: version,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
	})
	a.log.Debug("config loaded", "file", a.v.ConfigFileUsed(), "port", cfg.Port, "seed", cfg.Seed)
	return nil
}
