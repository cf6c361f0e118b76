package inspect

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/segmentio/textio"
	"github.com/spf13/cobra"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/config"
	"go.firedancer.io/tlvstate/pkg/inspect"
	"go.firedancer.io/tlvstate/pkg/rpcclient"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

var (
	Cmd = cobra.Command{
		Use:   "inspect",
		Short: "Print the records of a TLV account",
		Long: "Reads TLV data given inline, fetched over RPC or loaded from a local accounts store, " +
			"and prints each record along with any token-metadata or token-group value it holds.",
		Args: cobra.NoArgs,
		Run:  run,
	}

	flagHex        string
	flagBase64     string
	flagBase58     string
	flagAccount    string
	flagDb         string
	flagKey        string
	flagRpc        string
	flagCommitment string
	flagOutput     string
	flagOffset     int
)

func init() {
	Cmd.Flags().StringVar(&flagHex, "hex", "", "Account data as hex")
	Cmd.Flags().StringVar(&flagBase64, "base64", "", "Account data as base64")
	Cmd.Flags().StringVar(&flagBase58, "base58", "", "Account data as base58")
	Cmd.Flags().StringVarP(&flagAccount, "account", "a", "", "Fetch this account over RPC")
	Cmd.Flags().StringVar(&flagDb, "db", "", "Load the account from this accounts store (default from config)")
	Cmd.Flags().StringVarP(&flagKey, "key", "k", "", "Key of the account to load from the accounts store")
	Cmd.Flags().StringVar(&flagRpc, "rpc", "", "RPC endpoint (default from config)")
	Cmd.Flags().StringVar(&flagCommitment, "commitment", "", "RPC commitment (default from config)")
	Cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format, yaml or hex (default from config)")
	Cmd.Flags().IntVar(&flagOffset, "offset", 0, "Skip this many bytes before the TLV region")

	Cmd.MarkFlagsMutuallyExclusive("hex", "base64", "base58", "account", "key")
	Cmd.MarkFlagsOneRequired("hex", "base64", "base58", "account", "key")
}

func run(c *cobra.Command, _ []string) {
	configPath, _ := c.Flags().GetString("config")
	conf, err := config.LoadConfigOrDefault(configPath)
	if err != nil {
		klog.Exit(err)
	}
	if flagOutput != "" {
		conf.Output = flagOutput
	}

	var report *inspect.Report
	switch {
	case flagAccount != "" || flagKey != "":
		var acct *accounts.Account
		acct, err = loadAccount(c, conf)
		if err != nil {
			klog.Exit(err)
		}
		report, err = inspect.InspectAccount(acct, flagOffset, conf.Rent)
	default:
		var data []byte
		data, err = inlineData()
		if err != nil {
			klog.Exit(err)
		}
		report, err = inspect.Inspect(data, flagOffset, conf.Rent)
	}
	if err != nil {
		klog.Exit(err)
	}

	klog.V(2).Infof("found %d records in %d bytes", len(report.Records), report.DataLen)

	switch conf.Output {
	case config.OutputHex:
		printHex(report)
	case config.OutputYaml:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			klog.Exit(err)
		}
	default:
		klog.Exitf("unknown output format %q", conf.Output)
	}
}

func inlineData() ([]byte, error) {
	switch {
	case flagHex != "":
		return inspect.DecodeData(inspect.EncodingHex, flagHex)
	case flagBase64 != "":
		return inspect.DecodeData(inspect.EncodingBase64, flagBase64)
	default:
		return inspect.DecodeData(inspect.EncodingBase58, flagBase58)
	}
}

func loadAccount(c *cobra.Command, conf *config.Config) (*accounts.Account, error) {
	if flagAccount != "" {
		pubkey, err := solana.PublicKeyFromBase58(flagAccount)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", flagAccount, err)
		}

		endpoint := lo.Ternary(flagRpc != "", flagRpc, conf.Rpc.Endpoint)
		commitment, err := rpcclient.ParseCommitment(lo.Ternary(flagCommitment != "", flagCommitment, conf.Rpc.Commitment))
		if err != nil {
			return nil, err
		}

		klog.V(2).Infof("fetching %s from %s", pubkey, endpoint)
		return rpcclient.NewRpcClient(endpoint).GetAccount(c.Context(), pubkey, commitment)
	}

	pubkey, err := solana.PublicKeyFromBase58(flagKey)
	if err != nil {
		return nil, fmt.Errorf("invalid key %q: %w", flagKey, err)
	}

	dir := lo.Ternary(flagDb != "", flagDb, conf.AccountDb)
	db, err := accounts.OpenAccountsDb(dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	acct, err := db.GetAccount((*[32]byte)(&pubkey))
	if err != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", pubkey, dir, err)
	}
	return acct, nil
}

// printHex writes one tab separated line per record, or an indented hex
// dump of every value when stdout is a terminal.
func printHex(report *inspect.Report) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		for _, record := range report.Records {
			fmt.Printf("%s\t%d\t%d\t%s\t%s\n",
				record.Discriminator, record.Offset, record.Length, record.Kind, hex.EncodeToString(record.Value))
		}
		return
	}

	for _, record := range report.Records {
		fmt.Printf("%s repetition=%d offset=%d length=%d kind=%s\n",
			record.Discriminator, record.RepetitionNumber, record.Offset, record.Length, record.Kind)

		w := textio.NewPrefixWriter(os.Stdout, "    ")
		_, _ = w.Write([]byte(hex.Dump(record.Value)))
		if err := w.Flush(); err != nil {
			klog.Exit(err)
		}
	}
}
