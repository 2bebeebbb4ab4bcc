package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Keys of the settings shared by every command. They can be set with flags or SSDTLC_ variables.
const (
	keyLogLevel      = "log-level"
	keyDevelopment   = "dev"
	keyBuildConfig   = "build-configuration"
	keyBuildCommand  = "build-command"
	keySqlPackage    = "sqlpackage"
	keyHistoryDriver = "history-driver"
	keyHistoryDSN    = "history-dsn"
	keyNoHistory     = "no-history"
	keyConfigFile    = "config"
	keyIgnoreEnv     = "ignore-env"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SSDTLC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "ssdtlifecycle",
		Short:         "Lifecycle of SQL Server database projects",
		Long:          "ssdtlifecycle builds versioned packages of a database project\nand generates the upgrade scripts between them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	f := rootCmd.PersistentFlags()
	f.String(keyLogLevel, "warn", "Diagnostic log level (debug, info, warn, error)")
	f.Bool(keyDevelopment, false, "Human readable diagnostic logs")
	f.String(keyBuildConfig, "Debug", "Build configuration of the project")
	f.String(keyBuildCommand, "dotnet", "Command building the project")
	f.String(keySqlPackage, "sqlpackage", "sqlpackage executable")
	f.String(keyHistoryDriver, "sqlite3", "Run history database driver (sqlite3, postgres, mysql)")
	f.String(keyHistoryDSN, "", "Run history data source, defaults to a sqlite file in the user config directory")
	f.Bool(keyNoHistory, false, "Do not persist the run history")
	f.String(keyConfigFile, "", "Configuration file, defaults to Properties/ssdtlifecycle.json next to the project")
	f.Bool(keyIgnoreEnv, false, "Ignore SSDTLC_ variables overriding the project configuration")

	rootCmd.AddCommand(
		newInitCmd(v),
		newScaffoldCmd(v),
		newCreateCmd(v),
		newVersionsCmd(v),
		newHistoryCmd(v),
		newGraphCmd(),
	)

	return rootCmd
}
