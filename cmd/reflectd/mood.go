package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reflectd/internal/app"
	"reflectd/internal/logging"
	"reflectd/pkg/types"
)

var (
	moodAdvanced bool
	moodModel    string
)

var moodCmd = &cobra.Command{
	Use:   "mood <text>",
	Short: "Analyze the mood of a text once and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat))
		a, err := app.Build(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		text := strings.Join(args, " ")
		var m types.Mood
		if moodAdvanced {
			m = a.Facade.AnalyzeAdvancedMood(cmd.Context(), text, moodModel)
		} else {
			m = a.Facade.AnalyzeMood(cmd.Context(), text)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), m)
		return err
	},
}

func init() {
	rootCmd.AddCommand(moodCmd)
	moodCmd.Flags().BoolVar(&moodAdvanced, "advanced", false, "ask a remote model instead of the sentiment pipeline")
	moodCmd.Flags().StringVar(&moodModel, "model", "", "remote model id for --advanced")
}
