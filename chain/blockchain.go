// Package chain is the ledger engine: it owns the blocks, the pending transactions,
// the balance table and the multisig wallet registry.
package chain

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/SaumyaGupta907/multisig-blockchain/config"
	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/SaumyaGupta907/multisig-blockchain/utils"
	"github.com/jinzhu/copier"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// Blockchain maintains the chain and settles balances as blocks are mined.
// Mutations take the write lock for their whole duration, mining included, so readers
// never see a half settled block.
type Blockchain struct {
	// The blocks, genesis first.
	blockchain model.Blockchain
	// Transaction pool it need to maintain. Incoming transaction are added to this pool.
	txPool model.TransactionPool
	// Committed balances.
	ledger model.Ledger
	// Debits of pending transactions. Only filled with STRICT_BALANCE.
	reserved model.Ledger
	// Multisig policies by address.
	wallets model.WalletRegistry
	// Blockchain config.
	config config.AppConfig
	// A single mutex for changing internal state.
	m sync.RWMutex
	// A unique identifier of this instance, only used to tell logs apart.
	uuid   string
	logger *log.Logger
}

// New creates a blockchain with the default config and the given difficulty.
// It panics if difficulty is larger than a hash can satisfy.
func New(difficulty uint32) *Blockchain {
	c := config.DefaultAppConfig()
	c.DIFFICULTY = difficulty
	c.VERBOSE = false
	bc, err := NewWithConfig(c)
	if err != nil {
		panic(err)
	}
	return bc
}

// NewWithConfig creates a blockchain whose genesis block is mined at c.DIFFICULTY and
// carries the configured allocations.
func NewWithConfig(c config.AppConfig) (*Blockchain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var owned config.AppConfig
	if err := copier.CopyWithOption(&owned, &c, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}

	id := uuid.NewV4().String()
	var out io.Writer = os.Stderr
	if !owned.VERBOSE {
		out = io.Discard
	}
	bc := &Blockchain{
		txPool:   model.NewTransactionPool(),
		ledger:   model.NewLedger(),
		reserved: model.NewLedger(),
		wallets:  model.NewWalletRegistry(),
		config:   owned,
		uuid:     id,
		logger:   log.New(out, "["+id[:8]+"] ", log.LstdFlags),
	}

	genesis, err := bc.createGenesisBlock()
	if err != nil {
		return nil, err
	}
	bc.blockchain = model.NewBlockChain(genesis)
	utils.HandleTransactions(genesis.Transactions, &bc.ledger, owned.MINT_ADDRESS)
	bc.logger.Printf("genesis block %s mined with nonce %d", genesis.Hash, genesis.Nonce)
	return bc, nil
}

func (f *Blockchain) createGenesisBlock() (*model.Block, error) {
	alloc, err := f.config.Allocations()
	if err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(alloc))
	for addr := range alloc {
		addrs = append(addrs, addr)
	}
	// Map order is random, the genesis content must not be.
	sort.Strings(addrs)

	txs := make([]model.Transaction, 0, len(addrs))
	for i, addr := range addrs {
		tx := utils.CreateStandardTx(f.config.MINT_ADDRESS, addr, alloc[addr], uint64(i))
		txs = append(txs, *tx)
	}
	return utils.CreateNewBlock(txs, 0, model.GenesisPrevHash, f.config.DIFFICULTY, f.config.MINING_WORKERS)
}

func (f *Blockchain) validationContext(now time.Time) *utils.ValidationContext {
	c := &utils.ValidationContext{
		Ledger:      &f.ledger,
		Wallets:     &f.wallets,
		MintAddress: f.config.MINT_ADDRESS,
		Now:         now,
	}
	if f.config.STRICT_BALANCE {
		c.Reserved = &f.reserved
	}
	return c
}

// AddTransaction validates tx and queues a private copy of it for the next block.
// A rejected transaction leaves no trace.
func (f *Blockchain) AddTransaction(tx *model.Transaction) error {
	if tx == nil {
		return errors.New("input transaction is nil")
	}

	f.m.Lock()
	defer f.m.Unlock()

	owned := tx.Clone()
	hash, err := utils.HashTransaction(&owned)
	if err != nil {
		return err
	}
	owned.Hash = hash

	// Only the pending pool is checked. Mined transactions are not indexed, so the same
	// content can be submitted again once its block is mined.
	if f.txPool.Has(hash) {
		return fmt.Errorf("%w: %s", model.ErrDuplicateTransaction, hash)
	}
	if err := utils.IsValidTransaction(&owned, f.validationContext(time.Now())); err != nil {
		f.logger.Printf("rejected transaction %s: %v", hash[:8], err)
		return err
	}

	if f.config.STRICT_BALANCE {
		utils.ReserveTransaction(&owned, &f.reserved, f.config.MINT_ADDRESS)
	}
	f.txPool.Add(owned)
	return nil
}

// MinePendingTransactions puts every pending transaction into a new block, mines it,
// appends it and settles its transactions in order. It returns a copy of the block.
func (f *Blockchain) MinePendingTransactions() (*model.Block, error) {
	f.m.Lock()
	defer f.m.Unlock()

	if f.txPool.Len() == 0 {
		return nil, model.ErrNothingToMine
	}

	tail := f.blockchain.Tail()
	start := time.Now()
	block, err := utils.CreateNewBlock(f.txPool.TxPool, uint64(f.blockchain.Len()), tail.Hash, f.config.DIFFICULTY, f.config.MINING_WORKERS)
	if err != nil {
		return nil, err
	}

	f.txPool.Drain()
	f.blockchain.Append(block)
	utils.HandleTransactions(block.Transactions, &f.ledger, f.config.MINT_ADDRESS)
	f.reserved = model.NewLedger()

	f.logger.Printf("block %d mined: %s (nonce: %d, txs: %d, took %s)",
		block.Index, block.Hash, block.Nonce, len(block.Transactions), time.Since(start))
	return block.Clone(), nil
}

// GetBalance returns the committed balance of address, zero if it never transacted.
func (f *Blockchain) GetBalance(address string) decimal.Decimal {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.ledger.Get(address)
}

func (f *Blockchain) GetBalanceFloat(address string) float64 {
	v, _ := f.GetBalance(address).Float64()
	return v
}

// CreateMultiSigWallet registers or replaces the policy of address. When signers are
// given only their tokens count towards required.
func (f *Blockchain) CreateMultiSigWallet(address string, required uint32, signers ...string) error {
	if required < 1 {
		return fmt.Errorf("%w: %s needs at least one signature", model.ErrInvalidThreshold, address)
	}

	var distinct []string
	seen := make(map[string]bool, len(signers))
	for _, s := range signers {
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, s)
		}
	}
	if len(distinct) > 0 && int(required) > len(distinct) {
		return fmt.Errorf("%w: %d-of-%d", model.ErrInvalidThreshold, required, len(distinct))
	}

	f.m.Lock()
	defer f.m.Unlock()
	f.wallets.Register(model.MultiSigWallet{
		Address:   address,
		Threshold: required,
		Signers:   distinct,
	})
	f.logger.Printf("multisig wallet %s registered, %d-of-%d", address, required, len(distinct))
	return nil
}

// IsChainValid re-verifies every block after genesis.
func (f *Blockchain) IsChainValid() bool {
	return f.VerifyChain() == nil
}

// VerifyChain is IsChainValid that tells which block failed and why. For each block
// after genesis it checks, in this order, that the hash matches the content, that it
// links to its parent, and that the hash meets the difficulty.
func (f *Blockchain) VerifyChain() error {
	f.m.RLock()
	defer f.m.RUnlock()

	blocks := f.blockchain.Blocks
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		var err error
		if matched, digest := utils.MatchDifficulty(b, f.config.DIFFICULTY); digest == "" || digest != b.Hash {
			err = model.ErrTamperedBlock
		} else if b.PreviousHash != blocks[i-1].Hash {
			err = model.ErrBrokenLink
		} else if !matched {
			err = model.ErrInsufficientWork
		}
		if err != nil {
			f.logger.Printf("chain verification failed at block %d: %v", i, err)
			return &model.ChainError{Index: uint64(i), Err: err}
		}
	}
	return nil
}
