package main

import (
	"github.com/milk9111/posebridge/config"
	"github.com/milk9111/posebridge/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "posebridge",
		Short: "Convert poses between a physics simulation and a scene graph",
		Long: `posebridge maps rigid simulation poses to scene transforms and back
under a length scale and a reference frame, and can run a world file
through a Chipmunk2D simulation while keeping scene transforms in sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default $POSEBRIDGE_LOG_LEVEL or info)")

	cmd.AddCommand(
		newConvertCmd(opts),
		newRunCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	level := o.logLevel
	if level == "" {
		env, err := config.ParseEnv()
		if err != nil {
			return nil, err
		}
		level = env.LogLevel
	}
	return logging.New(level)
}
