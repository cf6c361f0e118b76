package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.firedancer.io/tlvstate/cmd/tlvstate/config"
	"go.firedancer.io/tlvstate/cmd/tlvstate/inspect"
	"go.firedancer.io/tlvstate/cmd/tlvstate/store"
	tlvconfig "go.firedancer.io/tlvstate/pkg/config"
	"k8s.io/klog/v2"
)

var cmd = cobra.Command{
	Use:   "tlvstate",
	Short: "Inspect and store type-length-value account state",
}

func init() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)
	cmd.PersistentFlags().String("config", tlvconfig.DefaultConfigPath(), "Path of the yaml config file")

	cmd.AddCommand(
		&config.Cmd,
		&inspect.Cmd,
		&store.Cmd,
	)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
