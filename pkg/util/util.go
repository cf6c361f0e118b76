package util

import (
	"bytes"
	"runtime"
	"slices"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/zeebo/blake3"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"k8s.io/klog/v2"
)

// DedupePubkeys sorts pubkeys in place and drops repeats.
func DedupePubkeys(pubkeys []solana.PublicKey) []solana.PublicKey {
	slices.SortStableFunc(pubkeys, func(a, b solana.PublicKey) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(pubkeys)
}

// CalculateAcctHash hashes every field of the account, data included, so
// fixtures can be compared after a round trip through a store.
func CalculateAcctHash(acct accounts.Account) []byte {
	hasher := blake3.New()

	var lamportBytes [8]byte
	bin.LE.PutUint64(lamportBytes[:], acct.Lamports)
	_, _ = hasher.Write(lamportBytes[:])

	var rentEpochBytes [8]byte
	bin.LE.PutUint64(rentEpochBytes[:], acct.RentEpoch)
	_, _ = hasher.Write(rentEpochBytes[:])

	_, _ = hasher.Write(acct.Data)

	if acct.Executable {
		_, _ = hasher.Write([]byte{1})
	} else {
		_, _ = hasher.Write([]byte{0})
	}

	_, _ = hasher.Write(acct.Owner[:])
	_, _ = hasher.Write(acct.Key[:])

	return hasher.Sum(nil)
}

// this logs the function name as well.
func VerboseHandleError(err error) (b bool) {
	if err != nil {
		pc, filename, line, _ := runtime.Caller(1)

		klog.Infof("[error] in %s[%s:%d] %v", runtime.FuncForPC(pc).Name(), filename, line, err)
		b = true
	}
	return
}
