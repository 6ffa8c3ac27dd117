package model

type TransactionPool struct {
	// TransactionPool contains all pending transactions that haven't been put into a block yet,
	// in admission order.
	TxPool []Transaction
	// Hashes of everything in TxPool, to reject duplicates.
	Seen map[string]bool
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() TransactionPool {
	return TransactionPool{
		Seen: make(map[string]bool),
	}
}

// Has reports whether a transaction with this hash is pending.
func (p *TransactionPool) Has(hash string) bool {
	return p.Seen[hash]
}

// Add appends tx and remembers its hash.
func (p *TransactionPool) Add(tx Transaction) {
	p.TxPool = append(p.TxPool, tx)
	p.Seen[tx.Hash] = true
}

func (p *TransactionPool) Len() int {
	return len(p.TxPool)
}

// Drain hands over the pending transactions and leaves the pool empty.
func (p *TransactionPool) Drain() []Transaction {
	txs := p.TxPool
	p.TxPool = nil
	p.Seen = make(map[string]bool)
	return txs
}
