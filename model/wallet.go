package model

// MultiSigWallet is the signing policy attached to an address.
type MultiSigWallet struct {
	Address string `json:"address"`
	// Minimum number of signer tokens a spend must carry.
	Threshold uint32 `json:"threshold"`
	// Authorized signers. Empty means any token counts.
	Signers []string `json:"signers"`
}

// CountSignatures returns how many tokens in sigs count towards the threshold. Without
// a signer list every token counts; with one, only distinct authorized signers do.
func (w *MultiSigWallet) CountSignatures(sigs []string) int {
	if len(w.Signers) == 0 {
		return len(sigs)
	}
	authorized := make(map[string]bool, len(w.Signers))
	for _, s := range w.Signers {
		authorized[s] = true
	}
	seen := make(map[string]bool, len(sigs))
	for _, s := range sigs {
		if authorized[s] {
			seen[s] = true
		}
	}
	return len(seen)
}

type WalletRegistry struct {
	Wallets map[string]MultiSigWallet
}

func NewWalletRegistry() WalletRegistry {
	return WalletRegistry{
		Wallets: make(map[string]MultiSigWallet),
	}
}

// Register inserts or overwrites the policy for w.Address.
func (r *WalletRegistry) Register(w MultiSigWallet) {
	r.Wallets[w.Address] = w
}

func (r *WalletRegistry) Get(addr string) (MultiSigWallet, bool) {
	w, ok := r.Wallets[addr]
	return w, ok
}
