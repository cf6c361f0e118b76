package store

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/config"
	"go.firedancer.io/tlvstate/pkg/inspect"
	"go.firedancer.io/tlvstate/pkg/rpcclient"
	"go.firedancer.io/tlvstate/pkg/util"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

var (
	Cmd = cobra.Command{
		Use:   "store",
		Short: "Manage account fixtures in a local accounts store",
	}

	putCmd = cobra.Command{
		Use:   "put <pubkey>",
		Short: "Save an account, given inline or fetched over RPC",
		Args:  cobra.ExactArgs(1),
		Run:   runPut,
	}

	getCmd = cobra.Command{
		Use:   "get <pubkey>...",
		Short: "Print accounts from the store",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGet,
	}

	deleteCmd = cobra.Command{
		Use:   "delete <pubkey>...",
		Short: "Remove accounts from the store",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDelete,
	}

	flagDb       string
	flagHex      string
	flagBase64   string
	flagOwner    string
	flagLamports uint64
	flagFetch    bool
	flagRpc      string
)

type storedAccount struct {
	accounts.Account `yaml:",inline"`
	Data             string `yaml:"data"`
	DataLen          int    `yaml:"data_len"`
	Hash             string `yaml:"hash"`
}

func init() {
	Cmd.PersistentFlags().StringVar(&flagDb, "db", "", "Accounts store directory (default from config)")

	putCmd.Flags().StringVar(&flagHex, "hex", "", "Account data as hex")
	putCmd.Flags().StringVar(&flagBase64, "base64", "", "Account data as base64")
	putCmd.Flags().StringVar(&flagOwner, "owner", "", "Owner program of the account")
	putCmd.Flags().Uint64Var(&flagLamports, "lamports", 0, "Account balance (default rent exempt minimum)")
	putCmd.Flags().BoolVar(&flagFetch, "fetch", false, "Fetch the account over RPC instead")
	putCmd.Flags().StringVar(&flagRpc, "rpc", "", "RPC endpoint (default from config)")
	putCmd.MarkFlagsMutuallyExclusive("hex", "base64", "fetch")
	putCmd.MarkFlagsOneRequired("hex", "base64", "fetch")

	Cmd.AddCommand(
		&putCmd,
		&getCmd,
		&deleteCmd,
	)
}

func loadConfig(c *cobra.Command) *config.Config {
	configPath, _ := c.Flags().GetString("config")
	conf, err := config.LoadConfigOrDefault(configPath)
	if err != nil {
		klog.Exit(err)
	}
	if flagDb != "" {
		conf.AccountDb = flagDb
	}
	return conf
}

func openDb(conf *config.Config) *accounts.PersistentAccountsDb {
	db, err := accounts.OpenAccountsDb(conf.AccountDb)
	if err != nil {
		klog.Exit(err)
	}
	return db
}

func parsePubkeys(args []string) []solana.PublicKey {
	pubkeys := make([]solana.PublicKey, 0, len(args))
	for _, arg := range args {
		pubkey, err := solana.PublicKeyFromBase58(arg)
		if err != nil {
			klog.Exitf("invalid pubkey %q: %s", arg, err)
		}
		pubkeys = append(pubkeys, pubkey)
	}
	return util.DedupePubkeys(pubkeys)
}

func runPut(c *cobra.Command, args []string) {
	conf := loadConfig(c)
	pubkey := parsePubkeys(args)[0]

	var acct *accounts.Account
	if flagFetch {
		commitment, err := rpcclient.ParseCommitment(conf.Rpc.Commitment)
		if err != nil {
			klog.Exit(err)
		}
		endpoint := lo.Ternary(flagRpc != "", flagRpc, conf.Rpc.Endpoint)
		acct, err = rpcclient.NewRpcClient(endpoint).GetAccount(c.Context(), pubkey, commitment)
		if err != nil {
			klog.Exitf("fetching %s: %s", pubkey, err)
		}
	} else {
		acct = inlineAccount(pubkey, conf)
	}

	db := openDb(conf)
	defer db.Close()

	if err := db.SetAccount((*[32]byte)(&pubkey), acct); err != nil {
		klog.Exit(err)
	}
	klog.Infof("stored %s (%d bytes)", pubkey, len(acct.Data))
	fmt.Println(hex.EncodeToString(util.CalculateAcctHash(*acct)))
}

func inlineAccount(pubkey solana.PublicKey, conf *config.Config) *accounts.Account {
	var data []byte
	var err error
	if flagHex != "" {
		data, err = inspect.DecodeData(inspect.EncodingHex, flagHex)
	} else {
		data, err = inspect.DecodeData(inspect.EncodingBase64, flagBase64)
	}
	if err != nil {
		klog.Exit(err)
	}

	var owner solana.PublicKey
	if flagOwner != "" {
		owner, err = solana.PublicKeyFromBase58(flagOwner)
		if err != nil {
			klog.Exitf("invalid owner %q: %s", flagOwner, err)
		}
	}

	lamports := flagLamports
	if lamports == 0 {
		lamports = conf.Rent.MinimumBalance(uint64(len(data)))
	}

	return &accounts.Account{
		Key:      pubkey,
		Lamports: lamports,
		Data:     data,
		Owner:    owner,
	}
}

func runGet(c *cobra.Command, args []string) {
	pubkeys := parsePubkeys(args)
	db := openDb(loadConfig(c))
	defer db.Close()

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()

	for _, pubkey := range pubkeys {
		acct, err := db.GetAccount((*[32]byte)(&pubkey))
		if util.VerboseHandleError(err) {
			continue
		}

		err = enc.Encode(storedAccount{
			Account: *acct,
			Data:    base64.StdEncoding.EncodeToString(acct.Data),
			DataLen: len(acct.Data),
			Hash:    hex.EncodeToString(util.CalculateAcctHash(*acct)),
		})
		if err != nil {
			klog.Exit(err)
		}
	}
}

func runDelete(c *cobra.Command, args []string) {
	pubkeys := parsePubkeys(args)
	db := openDb(loadConfig(c))
	defer db.Close()

	for _, pubkey := range pubkeys {
		if err := db.DeleteAccount((*[32]byte)(&pubkey)); err != nil {
			klog.Exit(err)
		}
		klog.Infof("deleted %s", pubkey)
	}
}
