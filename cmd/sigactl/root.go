package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/siga-vet/go-clinic-repository/config"
	"github.com/siga-vet/go-clinic-repository/internal/logging"
	"github.com/siga-vet/go-clinic-repository/pkg/di"
)

type flags struct {
	configPath string
	logLevel   string
}

// rootCommand assembles sigactl and its subcommands.
func rootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "sigactl",
		Short:        "Clinic database tool",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to database.properties (defaults and SIGA_* variables when empty)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		pingCommand(f),
		schemaCommand(f),
		statsCommand(f),
	)
	return root
}

// container loads the configuration and connects. The caller closes it.
func (f *flags) container(ctx context.Context, cmd *cobra.Command) (*di.Container, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	opts := cfg.Logging()
	opts.Output = cmd.ErrOrStderr()
	logger := logging.New(opts).With("command", cmd.Name())

	return di.NewContainer(ctx, cfg, di.WithLogger(logger))
}
