package config

import (
	"os"

	"github.com/spf13/cobra"
	tlvconfig "go.firedancer.io/tlvstate/pkg/config"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

var (
	Cmd = cobra.Command{
		Use:   "config",
		Short: "Manage the tlvstate config file",
	}

	initCmd = cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		Run:   runInit,
	}

	showCmd = cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		Run:   runShow,
	}

	force bool
)

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	Cmd.AddCommand(
		&initCmd,
		&showCmd,
	)
}

func runInit(c *cobra.Command, _ []string) {
	path, _ := c.Flags().GetString("config")

	if _, err := os.Stat(path); err == nil && !force {
		klog.Exitf("config file %s already exists, use --force to overwrite", path)
	}

	if err := tlvconfig.SaveConfig(tlvconfig.DefaultConfig(), path); err != nil {
		klog.Exit(err)
	}
	klog.Infof("wrote default config to %s", path)
}

func runShow(c *cobra.Command, _ []string) {
	path, _ := c.Flags().GetString("config")

	conf, err := tlvconfig.LoadConfigOrDefault(path)
	if err != nil {
		klog.Exit(err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(conf); err != nil {
		klog.Exit(err)
	}
}
