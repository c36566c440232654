package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log     = logrus.New()
	cfgFile string
	verbose int
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "arkive",
		Short:         "Compress and extract archives with host-driven conflict and passphrase handling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (json, yaml, toml)")
	root.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase logging verbosity (-v, -vv, -vvv)")

	root.AddCommand(newCompressCommand())
	root.AddCommand(newExtractCommand())

	return root
}

func initConfig() error {
	switch {
	case verbose >= 2:
		log.SetLevel(logrus.TraceLevel)
	case verbose == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if cfgFile == "" {
		return nil
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	log.WithField("file", cfgFile).Debug("loaded config file")
	return nil
}
