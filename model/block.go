package model

// GenesisPrevHash is the previous hash carried by the genesis block.
const GenesisPrevHash = "0000000000000000000000000000000000000000000000000000000000000000"

type Block struct {
	// Position in the chain, 0 is genesis.
	Index uint64 `json:"index"`
	// Unix nanoseconds at which the block was assembled.
	Timestamp int64 `json:"timestamp"`
	// Transactions in the order they were admitted. Settlement follows this order.
	Transactions []Transaction `json:"transactions"`
	// Hash of the previous block in the hex format.
	PreviousHash string `json:"previous_hash"`
	// Hash of this entire block in the hex string format.
	Hash string `json:"hash"`
	// Nonce is the miner's challenge for computing the block.
	Nonce uint64 `json:"nonce"`
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := *b
	c.Transactions = make([]Transaction, len(b.Transactions))
	for i := range b.Transactions {
		c.Transactions[i] = b.Transactions[i].Clone()
	}
	return &c
}

// Blockchain is the append-only sequence of blocks, genesis first.
type Blockchain struct {
	Blocks []*Block
}

// Create a new blockchain holding only the genesis block.
func NewBlockChain(genesis *Block) Blockchain {
	return Blockchain{
		Blocks: []*Block{genesis},
	}
}

// Tail returns the most recent block. A chain always holds at least its genesis block.
func (bc *Blockchain) Tail() *Block {
	if len(bc.Blocks) == 0 {
		panic("blockchain has no genesis block")
	}
	return bc.Blocks[len(bc.Blocks)-1]
}

func (bc *Blockchain) Append(b *Block) {
	bc.Blocks = append(bc.Blocks, b)
}

func (bc *Blockchain) Len() int {
	return len(bc.Blocks)
}
