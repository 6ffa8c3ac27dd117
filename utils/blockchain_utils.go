package utils

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
)

// Create a block from the provided transactions on top of prevHash and mine it.
// workers > 1 spreads the nonce search over that many goroutines.
func CreateNewBlock(txs []model.Transaction, index uint64, prevHash string, difficulty uint32, workers int) (*model.Block, error) {
	block := model.Block{
		Index:        index,
		Timestamp:    time.Now().UnixNano(),
		Transactions: txs,
		PreviousHash: prevHash,
	}

	var err error
	if workers > 1 {
		err = MineParallel(&block, difficulty, workers)
	} else {
		err = Mine(&block, difficulty)
	}
	if err != nil {
		return nil, err
	}

	return &block, nil
}

// Mine a block, fill the nonce and hash given the current difficulty setting.
// difficulty - how many leading zero hex characters
func Mine(block *model.Block, difficulty uint32) error {
	prefix, err := getBlockPrefix(block)
	if err != nil {
		return err
	}
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)

	nonce := uint64(0)
	for {
		putNonce(buf, len(prefix), nonce)
		digest := SHA256(buf)
		if ByteHasLeadingZeros(digest, int(difficulty)*4) {
			block.Nonce = nonce
			block.Hash = BytesToHex(digest)
			return nil
		}
		nonce++
		if nonce == 0 {
			return errors.New("failed to find any nonce")
		}
	}
}

// How many nonces a worker tries between checks for a winner.
const checkInterval = 1024

// MineParallel searches disjoint nonce ranges on several goroutines. Worker w tries
// w, w+workers, w+2*workers, ... The first valid nonce found wins and the others stop.
func MineParallel(block *model.Block, difficulty uint32, workers int) error {
	if workers < 1 {
		workers = 1
	}
	prefix, err := getBlockPrefix(block)
	if err != nil {
		return err
	}

	var (
		once   sync.Once
		wg     sync.WaitGroup
		done   = make(chan struct{})
		found  bool
		nonce  uint64
		digest []byte
	)
	stride := uint64(workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			buf := make([]byte, len(prefix)+8)
			copy(buf, prefix)
			for n, tries := start, 0; n >= start; n, tries = n+stride, tries+1 {
				if tries%checkInterval == 0 {
					select {
					case <-done:
						return
					default:
					}
				}
				putNonce(buf, len(prefix), n)
				d := SHA256(buf)
				if ByteHasLeadingZeros(d, int(difficulty)*4) {
					once.Do(func() {
						found = true
						nonce = n
						digest = d
						close(done)
					})
					return
				}
			}
		}(uint64(w))
	}
	wg.Wait()

	if !found {
		return errors.New("failed to find any nonce")
	}
	block.Nonce = nonce
	block.Hash = BytesToHex(digest)
	return nil
}

// Everything the block hash covers except the nonce:
// index | timestamp | transactions (json) | previous hash
func getBlockPrefix(block *model.Block) ([]byte, error) {
	var raw []byte
	raw = append(raw, Uint64ToBytes(block.Index)...)
	raw = append(raw, Int64ToBytes(block.Timestamp)...)

	txBytes, err := GetTransactionsBytes(block.Transactions)
	if err != nil {
		return nil, err
	}
	raw = append(raw, txBytes...)
	raw = append(raw, []byte(block.PreviousHash)...)
	return raw, nil
}

func putNonce(buf []byte, at int, nonce uint64) {
	copy(buf[at:], Uint64ToBytes(nonce))
}

// GetBlockBytes returns the canonical bytes the block hash is computed over.
func GetBlockBytes(block *model.Block) ([]byte, error) {
	prefix, err := getBlockPrefix(block)
	if err != nil {
		return nil, err
	}
	return append(prefix, Uint64ToBytes(block.Nonce)...), nil
}

// CalculateHash recomputes the block hash from its current fields.
func CalculateHash(block *model.Block) (string, error) {
	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		return "", err
	}
	return Hash(blockBytes), nil
}

// MatchDifficulty recomputes the block hash and reports whether it meets difficulty.
// The digest is empty if the block cannot be serialized.
func MatchDifficulty(block *model.Block, difficulty uint32) (bool, string) {
	digest, err := CalculateHash(block)
	if err != nil {
		log.Println(err)
		return false, ""
	}
	return HasLeadingZeroHex(digest, difficulty), digest
}

// HasLeadingZeroHex reports whether the hex digest starts with difficulty '0' characters.
func HasLeadingZeroHex(digest string, difficulty uint32) bool {
	if int(difficulty) > len(digest) {
		return false
	}
	return strings.Count(digest[:difficulty], "0") == int(difficulty)
}

// ByteHasLeadingZeros reports whether the first difficulty bits of bytes are zero.
func ByteHasLeadingZeros(bytes []byte, difficulty int) bool {
	numOfZeroBytes := difficulty / 8
	numOfZeroBits := difficulty % 8

	totalBytes := numOfZeroBytes
	if numOfZeroBits > 0 {
		totalBytes += 1
	}
	if totalBytes > len(bytes) {
		return false
	}
	for i := 0; i < numOfZeroBytes; i++ {
		if bytes[i] != 0 {
			return false
		}
	}
	if numOfZeroBits == 0 {
		return true
	}
	nextByte := bytes[numOfZeroBytes]

	return nextByte>>byte(8-numOfZeroBits) == 0
}
