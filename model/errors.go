package model

import (
	"errors"
	"fmt"
)

// Transaction admission failures. None of them leave any state behind.
var (
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrUnknownWallet          = errors.New("unknown multisig wallet")
	ErrInsufficientSignatures = errors.New("insufficient signatures")
	ErrStillLocked            = errors.New("transaction is still locked")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrDuplicateTransaction   = errors.New("existing transaction, will not process")
)

var (
	ErrNothingToMine    = errors.New("no pending transactions to mine")
	ErrInvalidThreshold = errors.New("invalid signature threshold")
)

// Chain verification failures.
var (
	ErrTamperedBlock    = errors.New("block hash does not match its content")
	ErrBrokenLink       = errors.New("previous hash does not match parent block")
	ErrInsufficientWork = errors.New("block hash does not meet difficulty")
)

// ChainError reports which block failed verification.
type ChainError struct {
	Index uint64
	Err   error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("block %d: %v", e.Index, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}
