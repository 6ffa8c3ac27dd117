package utils

import (
	"strings"
	"testing"

	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBlock() model.Block {
	return model.Block{
		Index:        1,
		Timestamp:    1700000000000000000,
		PreviousHash: "00ab",
		Transactions: []model.Transaction{
			*CreateStandardTx("alice", "bob", decimal.NewFromInt(5), 1),
		},
		Nonce: 3,
	}
}

func TestGetBlockBytes(t *testing.T) {
	testBlock := createTestBlock()

	var expectedBlockBytes []byte
	expectedBlockBytes = append(expectedBlockBytes, Uint64ToBytes(testBlock.Index)...)
	expectedBlockBytes = append(expectedBlockBytes, Int64ToBytes(testBlock.Timestamp)...)
	txBytes, err := GetTransactionsBytes(testBlock.Transactions)
	require.NoError(t, err)
	expectedBlockBytes = append(expectedBlockBytes, txBytes...)
	expectedBlockBytes = append(expectedBlockBytes, []byte(testBlock.PreviousHash)...)
	expectedBlockBytes = append(expectedBlockBytes, Uint64ToBytes(testBlock.Nonce)...)

	actualBlockBytes, err := GetBlockBytes(&testBlock)
	require.NoError(t, err)
	assert.Equal(t, expectedBlockBytes, actualBlockBytes)
}

func TestGetBlockBytesIsStable(t *testing.T) {
	testBlock := createTestBlock()
	first, err := GetBlockBytes(&testBlock)
	require.NoError(t, err)

	clone := testBlock.Clone()
	second, err := GetBlockBytes(clone)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	clone.Nonce++
	third, err := GetBlockBytes(clone)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestMine(t *testing.T) {
	testDifficulty := uint32(2)
	testBlock := createTestBlock()

	assert.Nil(t, Mine(&testBlock, testDifficulty))
	matched, digest := MatchDifficulty(&testBlock, testDifficulty)
	assert.True(t, matched)
	assert.Equal(t, digest, testBlock.Hash)
	assert.True(t, strings.HasPrefix(testBlock.Hash, "00"))
}

func TestMineFindsSmallestNonce(t *testing.T) {
	testDifficulty := uint32(1)
	testBlock := createTestBlock()
	require.NoError(t, Mine(&testBlock, testDifficulty))

	for n := uint64(0); n < testBlock.Nonce; n++ {
		probe := testBlock
		probe.Nonce = n
		matched, _ := MatchDifficulty(&probe, testDifficulty)
		assert.False(t, matched, "nonce %d", n)
	}
}

func TestMineParallel(t *testing.T) {
	testDifficulty := uint32(2)
	for _, workers := range []int{0, 1, 3, 8} {
		testBlock := createTestBlock()
		require.NoError(t, MineParallel(&testBlock, testDifficulty, workers))

		digest, err := CalculateHash(&testBlock)
		require.NoError(t, err)
		assert.Equal(t, digest, testBlock.Hash)
		assert.True(t, HasLeadingZeroHex(testBlock.Hash, testDifficulty))
	}
}

func TestCreateNewBlock(t *testing.T) {
	txs := createTestBlock().Transactions
	block, err := CreateNewBlock(txs, 4, "00ff", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), block.Index)
	assert.Equal(t, "00ff", block.PreviousHash)
	assert.Equal(t, txs, block.Transactions)
	assert.NotZero(t, block.Timestamp)

	matched, _ := MatchDifficulty(block, 1)
	assert.True(t, matched)
}

func TestMatchDifficulty(t *testing.T) {
	testDifficulty := uint32(2)
	testBlock := createTestBlock()
	actualMatched, actualDigest := MatchDifficulty(&testBlock, testDifficulty)

	blockBytes, err := GetBlockBytes(&testBlock)
	require.NoError(t, err)
	expectedDigest := BytesToHex(SHA256(blockBytes))

	assert.Equal(t, HasLeadingZeroHex(expectedDigest, testDifficulty), actualMatched)
	assert.Equal(t, expectedDigest, actualDigest)
	assert.Len(t, actualDigest, 64)
}

func TestHasLeadingZeroHex(t *testing.T) {
	assert.True(t, HasLeadingZeroHex("00ab", 0))
	assert.True(t, HasLeadingZeroHex("00ab", 2))
	assert.False(t, HasLeadingZeroHex("00ab", 3))
	assert.False(t, HasLeadingZeroHex("0a0b", 2))
	assert.False(t, HasLeadingZeroHex("00", 3))
}

func TestByteHasLeadingZeros(t *testing.T) {
	testByte := []byte{2, 45, 40}
	assert.True(t, ByteHasLeadingZeros(testByte, 6))
	assert.False(t, ByteHasLeadingZeros(testByte, 9))
	assert.False(t, ByteHasLeadingZeros(testByte, 25))
	assert.True(t, ByteHasLeadingZeros([]byte{0, 0}, 16))
	assert.True(t, ByteHasLeadingZeros([]byte{0, 0x0f}, 12))
	assert.False(t, ByteHasLeadingZeros([]byte{0, 0x1f}, 12))
}

// Counting zero bits of the digest and zero characters of its hex form must agree.
func TestLeadingZerosAgree(t *testing.T) {
	testBlock := createTestBlock()
	for n := uint64(0); n < 200; n++ {
		testBlock.Nonce = n
		blockBytes, err := GetBlockBytes(&testBlock)
		require.NoError(t, err)
		digest := SHA256(blockBytes)
		for difficulty := uint32(0); difficulty <= 2; difficulty++ {
			assert.Equal(t,
				HasLeadingZeroHex(BytesToHex(digest), difficulty),
				ByteHasLeadingZeros(digest, int(difficulty)*4))
		}
	}
}
