package main

import (
	"bufio"
	"errors"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/SaumyaGupta907/multisig-blockchain/chain"
	"github.com/SaumyaGupta907/multisig-blockchain/commands"
	"github.com/SaumyaGupta907/multisig-blockchain/config"
	"github.com/SaumyaGupta907/multisig-blockchain/model"
	"github.com/SaumyaGupta907/multisig-blockchain/utils"
	"github.com/SaumyaGupta907/multisig-blockchain/visualize"
	"github.com/pterm/pterm"
)

var (
	configPath *string
	script     *bool
)

func init() {
	configPath = flag.String("config_path", "", "path to the yaml config, defaults are used when empty")
	script = flag.Bool("script", false, "run the built-in demo instead of reading commands from stdin")
}

// The built-in demo: funding, a 2-of-3 treasury, vesting, and two rejected spends.
var demoScript = []string{
	"transfer genesis Alice 1000",
	"transfer genesis Bob 500",
	"mine",
	"wallet company_treasury 2 CEO,CFO,CTO",
	"transfer genesis company_treasury 10000",
	"mine",
	"multisig company_treasury Vendor 3000 2 CEO,CFO",
	"mine",
	"timelock company_treasury Employee_John 1000 -24h",
	"mine",
	"multisig company_treasury Hacker 5000 2 CEO",
	"timelock Alice Bob 100 +8760h",
	"validate",
	"show 0",
	"balances",
}

func ParseCommand(cmd chan commands.Command) {
	defer close(cmd)
	scanner := bufio.NewScanner(os.Stdin)
	pterm.Print("> ")
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			pterm.Print("> ")
			continue
		}
		c, err := commands.CreateCommand(text)
		if err != nil {
			pterm.Error.Println(err)
			pterm.Print("> ")
			continue
		}
		cmd <- c
	}
}

func HandleCommand(cmd chan commands.Command, runner *Runner) {
	for c := range cmd {
		if quit := runner.Execute(c); quit {
			return
		}
		pterm.Print("> ")
	}
}

// Runner applies commands to one blockchain.
type Runner struct {
	bc *chain.Blockchain
	// Nonce for the next transaction built from a command.
	nonce uint64
}

func (r *Runner) nextNonce() uint64 {
	r.nonce++
	return r.nonce
}

func (r *Runner) submit(tx *model.Transaction) {
	if err := r.bc.AddTransaction(tx); err != nil {
		pterm.Warning.Printfln("transaction rejected: %v", err)
		return
	}
	pterm.Success.Printfln("queued %s", visualize.DescribeTransaction(tx))
}

// Execute runs one command and reports whether the REPL should stop.
func (r *Runner) Execute(c commands.Command) bool {
	switch c.Op {
	case commands.TRANSFER:
		amount, _ := commands.ParseAmount(c.Args[2])
		r.submit(utils.CreateStandardTx(c.Args[0], c.Args[1], amount, r.nextNonce()))
	case commands.MULTISIG:
		amount, _ := commands.ParseAmount(c.Args[2])
		required, _ := commands.ParseRequired(c.Args[3])
		r.submit(utils.CreateMultiSigTx(c.Args[0], c.Args[1], amount, required, commands.ParseList(c.Args[4]), r.nextNonce()))
	case commands.TIMELOCK:
		amount, _ := commands.ParseAmount(c.Args[2])
		unlock, err := commands.ParseUnlockTime(c.Args[3], timeNow())
		if err != nil {
			pterm.Error.Println(err)
			break
		}
		r.submit(utils.CreateTimeLockedTx(c.Args[0], c.Args[1], amount, unlock, r.nextNonce()))
	case commands.WALLET:
		required, _ := commands.ParseRequired(c.Args[1])
		var signers []string
		if len(c.Args) == 3 {
			signers = commands.ParseList(c.Args[2])
		}
		if err := r.bc.CreateMultiSigWallet(c.Args[0], required, signers...); err != nil {
			pterm.Error.Println(err)
			break
		}
		pterm.Success.Printfln("wallet %s requires %d signatures", c.Args[0], required)
	case commands.MINE:
		pterm.Info.Printfln("mining %d transactions at difficulty %d", len(r.bc.PendingTransactions()), r.bc.Difficulty())
		b, err := r.bc.MinePendingTransactions()
		if errors.Is(err, model.ErrNothingToMine) {
			pterm.Warning.Println(err)
			break
		}
		if err != nil {
			pterm.Error.Println(err)
			break
		}
		pterm.Success.Printfln("block %d mined: %s (nonce %d)", b.Index, b.Hash, b.Nonce)
	case commands.BALANCE:
		pterm.Info.Printfln("%s: %s", c.Args[0], r.bc.GetBalance(c.Args[0]))
	case commands.BALANCES:
		out, err := visualize.RenderBalances(r.bc.Balances())
		if err != nil {
			pterm.Error.Println(err)
			break
		}
		pterm.Println(out)
	case commands.PENDING:
		pterm.Println(visualize.RenderPending(r.bc.PendingTransactions()))
	case commands.VALIDATE:
		if err := r.bc.VerifyChain(); err != nil {
			pterm.Error.Printfln("blockchain validation failed: %v", err)
			break
		}
		pterm.Success.Printfln("blockchain is valid: %d blocks, hashes, linkage and proof of work verified", r.bc.Height())
	case commands.SHOW:
		depth, _ := strconv.Atoi(c.Args[0])
		out, err := visualize.RenderChain(r.bc.Blocks(), depth)
		if err != nil {
			pterm.Error.Println(err)
			break
		}
		pterm.Println(out)
	case commands.HELP:
		pterm.Println(commands.Usage)
	case commands.QUIT:
		return true
	default:
		log.Print("Unrecognized command:", c)
	}
	return false
}

func loadConfig(path string) (config.AppConfig, error) {
	if path == "" {
		return config.DefaultAppConfig(), nil
	}
	return config.ParseAppConfig(path)
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	bc, err := chain.NewWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	pterm.DefaultHeader.Println("Multi-signature blockchain with time-locked transactions")
	pterm.Info.Printfln("genesis block created, difficulty %d", cfg.DIFFICULTY)

	runner := &Runner{bc: bc}
	if *script {
		for _, line := range demoScript {
			c, err := commands.CreateCommand(line)
			if err != nil {
				log.Fatalf("bad demo command %q: %v", line, err)
			}
			pterm.DefaultSection.Println(line)
			runner.Execute(c)
		}
		return
	}

	pterm.Println(commands.Usage)
	cmd := make(chan commands.Command)
	go ParseCommand(cmd)
	HandleCommand(cmd, runner)
}
