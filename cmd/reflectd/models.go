package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reflectd/internal/registry"
	"reflectd/pkg/types"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the model catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		reg, err := registry.Build(cfg.RegistryFile, cfg.ModelsDir)
		if err != nil {
			return err
		}
		return printModels(cmd.OutOrStdout(), reg.ListModels(), modelsJSON)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print JSON instead of a table")
}

func printModels(w io.Writer, models []types.ModelConfig, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(types.ModelsResponse{Models: models})
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTASK\tBACKEND\tPROVIDER\tPATH")
	for _, m := range models {
		provider := "-"
		if m.Backend == types.BackendRemoteChat {
			provider = m.RemoteProvider()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Task, m.Backend, provider, m.Path)
	}
	return tw.Flush()
}
