package attestation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

type canonicalTransfer struct {
	ID          string `json:"id"`
	SourceChain string `json:"sourceChain"`
	TargetChain string `json:"targetChain"`
	Sender      string `json:"from"`
	Receiver    string `json:"to"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	Fee         string `json:"fee"`
}

// Payload returns the canonical encoding of the transfer fields validators attest to.
func Payload(t *transfer.Transfer) ([]byte, error) {
	if t.Amount == nil || t.Fee == nil {
		return nil, fmt.Errorf("%w: transfer %s missing amount or fee", transfer.ErrInvalidArgument, t.ID)
	}

	return json.Marshal(canonicalTransfer{
		ID:          t.ID,
		SourceChain: t.SourceChain,
		TargetChain: t.TargetChain,
		Sender:      t.Sender,
		Receiver:    t.Receiver,
		Asset:       t.Asset,
		Amount:      t.Amount.String(),
		Fee:         t.Fee.String(),
	})
}

// Digest is the keccak256 hash of the payload that validators sign
func Digest(payload []byte) []byte {
	return crypto.Keccak256(payload)
}

// AddressResolver maps a validator identity to the address its signatures must recover to
type AddressResolver interface {
	Address(validator string) (common.Address, error)
}

// ECDSAVerifier accepts 65 byte secp256k1 signatures over the payload digest
type ECDSAVerifier struct {
	resolver AddressResolver
}

func NewECDSAVerifier(resolver AddressResolver) *ECDSAVerifier {
	return &ECDSAVerifier{
		resolver: resolver,
	}
}

func (v *ECDSAVerifier) Verify(validator string, payload []byte, signature []byte) bool {
	if len(signature) != crypto.SignatureLength {
		return false
	}
	expected, err := v.resolver.Address(validator)
	if err != nil {
		return false
	}

	sig := common.CopyBytes(signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(Digest(payload), sig)
	if err != nil {
		return false
	}
	return strings.EqualFold(crypto.PubkeyToAddress(*pub).Hex(), expected.Hex())
}
