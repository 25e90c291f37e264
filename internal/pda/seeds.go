package pda

import "github.com/gagliardetto/solana-go"

var (
	SignerSeed = []byte("signer")
	LockedSeed = []byte("locked")
)

func SignerSeeds() [][]byte {
	return [][]byte{SignerSeed}
}

func LockedSeeds(user, signer, asset solana.PublicKey) [][]byte {
	return [][]byte{user.Bytes(), signer.Bytes(), asset.Bytes(), LockedSeed}
}

// HoldingSeeds is the associated registry layout, derived under the
// associated registry program namespace.
func HoldingSeeds(owner, tokenProgram, asset solana.PublicKey) [][]byte {
	return [][]byte{owner.Bytes(), tokenProgram.Bytes(), asset.Bytes()}
}
