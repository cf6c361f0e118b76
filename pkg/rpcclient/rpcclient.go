package rpcclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.firedancer.io/tlvstate/pkg/accounts"
)

type RpcClient struct {
	client *rpc.Client
}

func NewRpcClient(endpoint string) *RpcClient {
	client := rpc.New(endpoint)
	return &RpcClient{client: client}
}

// ParseCommitment accepts processed, confirmed and finalized, defaulting
// to confirmed.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch s {
	case "":
		return rpc.CommitmentConfirmed, nil
	case string(rpc.CommitmentProcessed), string(rpc.CommitmentConfirmed), string(rpc.CommitmentFinalized):
		return rpc.CommitmentType(s), nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}

// GetAccount fetches an account with base64 encoded data. Missing accounts
// yield accounts.ErrAccountNotFound.
func (fetcher *RpcClient) GetAccount(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (*accounts.Account, error) {
	result, err := fetcher.client.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && (result == nil || result.Value == nil)) {
		return nil, fmt.Errorf("account %s: %w", pubkey, accounts.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("rpc call getAccountInfo failed for %s: %w", pubkey, err)
	}

	value := result.Value
	acct := &accounts.Account{
		Key:        pubkey,
		Lamports:   value.Lamports,
		Owner:      value.Owner,
		Executable: value.Executable,
	}
	if value.Data != nil {
		acct.Data = value.Data.GetBinary()
	}
	if value.RentEpoch != nil && value.RentEpoch.IsUint64() {
		acct.RentEpoch = value.RentEpoch.Uint64()
	}
	return acct, nil
}
