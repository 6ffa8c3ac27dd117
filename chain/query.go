package chain

import (
	"github.com/SaumyaGupta907/multisig-blockchain/config"
	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// Blocks returns a deep copy of the chain, genesis first.
func (f *Blockchain) Blocks() []*model.Block {
	f.m.RLock()
	defer f.m.RUnlock()
	res := make([]*model.Block, 0, f.blockchain.Len())
	for _, b := range f.blockchain.Blocks {
		res = append(res, b.Clone())
	}
	return res
}

// Tail returns a copy of the latest block.
func (f *Blockchain) Tail() *model.Block {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Tail().Clone()
}

// Height is the number of blocks, genesis included.
func (f *Blockchain) Height() int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Len()
}

// PendingTransactions returns copies of the queued transactions in admission order.
func (f *Blockchain) PendingTransactions() []model.Transaction {
	f.m.RLock()
	defer f.m.RUnlock()
	res := make([]model.Transaction, 0, f.txPool.Len())
	for i := range f.txPool.TxPool {
		res = append(res, f.txPool.TxPool[i].Clone())
	}
	return res
}

// Balances returns a snapshot of every known balance.
func (f *Blockchain) Balances() map[string]decimal.Decimal {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.ledger.Snapshot()
}

// Wallet returns a copy of the policy registered for address.
func (f *Blockchain) Wallet(address string) (model.MultiSigWallet, bool) {
	f.m.RLock()
	defer f.m.RUnlock()
	w, ok := f.wallets.Get(address)
	if !ok {
		return model.MultiSigWallet{}, false
	}
	var res model.MultiSigWallet
	if err := copier.CopyWithOption(&res, &w, copier.Option{DeepCopy: true}); err != nil {
		f.logger.Printf("failed to copy wallet %s: %v", address, err)
		return model.MultiSigWallet{}, false
	}
	return res, true
}

// Wallets returns a deep copy of the registry.
func (f *Blockchain) Wallets() map[string]model.MultiSigWallet {
	f.m.RLock()
	defer f.m.RUnlock()
	var res model.WalletRegistry
	if err := copier.CopyWithOption(&res, &f.wallets, copier.Option{DeepCopy: true}); err != nil {
		f.logger.Printf("failed to copy wallet registry: %v", err)
		res.Wallets = nil
	}
	if res.Wallets == nil {
		res.Wallets = make(map[string]model.MultiSigWallet)
	}
	return res.Wallets
}

func (f *Blockchain) Difficulty() uint32 {
	return f.config.DIFFICULTY
}

// Config returns a copy of the config the blockchain runs with.
func (f *Blockchain) Config() config.AppConfig {
	var res config.AppConfig
	if err := copier.CopyWithOption(&res, &f.config, copier.Option{DeepCopy: true}); err != nil {
		f.logger.Printf("failed to copy config: %v", err)
		return config.DefaultAppConfig()
	}
	return res
}

func (f *Blockchain) ID() string {
	return f.uuid
}
