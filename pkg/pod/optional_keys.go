package pod

import (
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ErrInvalidArgument = errors.New("ErrInvalidArgument")

// OptionalNonZeroPubkey stores an optional key in 32 bytes; the zero key
// means none.
type OptionalNonZeroPubkey solana.PublicKey

// OptionalNonZeroPubkeyFrom fails for an explicit zero key, which could not
// be told apart from none.
func OptionalNonZeroPubkeyFrom(key *solana.PublicKey) (OptionalNonZeroPubkey, error) {
	if key == nil {
		return OptionalNonZeroPubkey{}, nil
	}
	if key.IsZero() {
		return OptionalNonZeroPubkey{}, ErrInvalidArgument
	}
	return OptionalNonZeroPubkey(*key), nil
}

// Get returns nil when no key is set.
func (p OptionalNonZeroPubkey) Get() *solana.PublicKey {
	key := solana.PublicKey(p)
	if key.IsZero() {
		return nil
	}
	return &key
}

func (p OptionalNonZeroPubkey) Equals(key solana.PublicKey) bool {
	return solana.PublicKey(p) == key
}

func (p OptionalNonZeroPubkey) String() string {
	if key := p.Get(); key != nil {
		return key.String()
	}
	return "none"
}

func (p OptionalNonZeroPubkey) MarshalYAML() (interface{}, error) {
	if key := p.Get(); key != nil {
		return key.String(), nil
	}
	return nil, nil
}

func (p OptionalNonZeroPubkey) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(p[:], false)
}

func (p *OptionalNonZeroPubkey) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	b, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(p[:], b)
	return nil
}
