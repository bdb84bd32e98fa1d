package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weegigs/wee-counter-go/support"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:          "counter",
	Short:        "Hosts counter contract instances",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().String("store", support.MemoryStore, "event store: memory, dynamo, dynamo-local, jetstream or esdb")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	_ = v.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, versionCmd)
}

func loadConfig() (support.Config, error) {
	return support.Load(v, cfgFile)
}
