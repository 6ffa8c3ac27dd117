package commands

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Operation int

const (
	// Submit a standard transfer: transfer <from> <to> <amount>
	TRANSFER Operation = iota
	// Submit a multisig transfer: multisig <from> <to> <amount> <required> <sig,sig,...>
	MULTISIG
	// Submit a time locked transfer: timelock <from> <to> <amount> <unlock>
	TIMELOCK
	// Register a multisig wallet: wallet <address> <required> [signer,signer,...]
	WALLET
	// Mine the pending transactions into a block.
	MINE
	// Print one balance: balance <address>
	BALANCE
	// Print every balance.
	BALANCES
	// Print the pending transactions.
	PENDING
	// Verify the whole chain.
	VALIDATE
	// Show the last blocks: show <depth>
	SHOW
	// Print usage.
	HELP
	// Leave the REPL.
	QUIT
)

var ops = map[string]Operation{
	"transfer": TRANSFER,
	"multisig": MULTISIG,
	"timelock": TIMELOCK,
	"wallet":   WALLET,
	"mine":     MINE,
	"balance":  BALANCE,
	"balances": BALANCES,
	"pending":  PENDING,
	"validate": VALIDATE,
	"show":     SHOW,
	"help":     HELP,
	"quit":     QUIT,
	"exit":     QUIT,
}

const Usage = `transfer <from> <to> <amount>
multisig <from> <to> <amount> <required> <sig,sig,...>
timelock <from> <to> <amount> <unlock>   unlock is RFC3339 or a duration from now, e.g. +1h or -24h
wallet <address> <required> [signer,signer,...]
mine
balance <address>
balances
pending
validate
show <depth>
help
quit`

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case MINE, BALANCES, PENDING, VALIDATE, HELP, QUIT:
		return len(c.Args) == 0
	case TRANSFER:
		if len(c.Args) != 3 {
			return false
		}
		_, err := ParseAmount(c.Args[2])
		return err == nil
	case MULTISIG:
		if len(c.Args) != 5 {
			return false
		}
		if _, err := ParseAmount(c.Args[2]); err != nil {
			return false
		}
		_, err := ParseRequired(c.Args[3])
		return err == nil
	case TIMELOCK:
		if len(c.Args) != 4 {
			return false
		}
		if _, err := ParseAmount(c.Args[2]); err != nil {
			return false
		}
		_, err := ParseUnlockTime(c.Args[3], time.Now())
		return err == nil
	case WALLET:
		if len(c.Args) != 2 && len(c.Args) != 3 {
			return false
		}
		_, err := ParseRequired(c.Args[1])
		return err == nil
	case BALANCE:
		return len(c.Args) == 1
	case SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a number.
		if _, err := strconv.Atoi(c.Args[0]); err != nil {
			return false
		}
		return true
	default:
		return false
	}
}

// From string, create
func CreateCommand(s string) (Command, error) {
	// split command by whitespace.
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	op, ok := ops[strings.ToLower(ss[0])]
	if !ok {
		return Command{}, errors.New("unknown command: " + ss[0])
	}
	cmd.Op = op
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// ParseAmount accepts positive decimal amounts.
func ParseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !v.IsPositive() {
		return decimal.Decimal{}, errors.New("amount must be positive")
	}
	return v, nil
}

func ParseRequired(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// ParseUnlockTime reads either an RFC3339 timestamp or a signed duration relative to now.
func ParseUnlockTime(s string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	}
	return time.Parse(time.RFC3339, s)
}

// ParseList splits a comma separated list, dropping empty entries.
func ParseList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
