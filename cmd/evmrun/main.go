// Command evmrun drives one bytecode execution through the interpreter core
// from a yaml fixture: load code, calldata and a starting fork/balance, run
// it to completion, and print the outcome. It is a harness for exercising
// the core, not a node — no RPC surface, no networking, no persistence
// beyond the single in-memory Host built for this run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
	"github.com/evmts/xvi-sub001/core/vm"
	"github.com/evmts/xvi-sub001/internal/evmlog"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml run fixture")
	forkFlag := flag.String("fork", "", "override the fixture's fork (e.g. Cancun)")
	trace := flag.Bool("trace", false, "log every opcode the interpreter executes")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: evmrun -config run.yaml [-fork Cancun] [-trace]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *forkFlag != "" {
		cfg.Fork = *forkFlag
	}

	fork, ok := vm.ParseFork(cfg.Fork)
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown fork:", cfg.Fork)
		os.Exit(1)
	}

	host := newMemHost()

	caller := types.HexToAddress(orDefault(cfg.Caller, "0x00000000000000000000000000000000000001"))
	addr := types.HexToAddress(orDefault(cfg.Address, "0x00000000000000000000000000000000000002"))

	if cfg.Balance != "" {
		bal, err := uint256.FromDecimal(cfg.Balance)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse balance:", err)
			os.Exit(1)
		}
		host.SetBalance(caller, bal)
	}

	code := mustHex(cfg.Code)
	input := mustHex(cfg.Input)
	host.SetCode(addr, code)

	value := new(uint256.Int)
	if cfg.Value != "" {
		v, err := uint256.FromDecimal(cfg.Value)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse value:", err)
			os.Exit(1)
		}
		value = v
	}

	blockCtx := vm.BlockContext{
		BlockNumber: cfg.BlockNumber,
		Time:        cfg.Timestamp,
		GasLimit:    cfg.GasLimit,
		Coinbase:    types.Address{},
		Difficulty:  new(uint256.Int),
		Random:      new(uint256.Int),
		BaseFee:     new(uint256.Int),
		BlobBaseFee: new(uint256.Int),
		GetHash:     host.GetBlockHash,
	}
	if cfg.BaseFee != "" {
		bf, err := uint256.FromDecimal(cfg.BaseFee)
		if err == nil {
			blockCtx.BaseFee = bf
		}
	}
	txCtx := vm.TxContext{Origin: caller, GasPrice: new(uint256.Int)}

	evm := vm.NewEvm(host, blockCtx, txCtx, fork, 1, &addr, nil, nil)
	if *trace {
		evm.Tracer = &stderrTracer{log: evmlog.New(slog.LevelDebug).Module("trace")}
	}

	result := evm.Call(vm.CallKindCall, caller, addr, addr, input, cfg.Gas, value, false)

	fmt.Printf("success=%v gasUsed=%d gasLeft=%d refund=%d\n", result.Success, cfg.Gas-result.RemainingGas, result.RemainingGas, evm.RefundCounter())
	fmt.Printf("returnData=0x%x\n", result.ReturnData)
	for _, l := range evm.Logs() {
		fmt.Printf("log address=%s topics=%d data=0x%x\n", l.Address.Hex(), len(l.Topics), l.Data)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func mustHex(s string) []byte {
	if s == "" {
		return nil
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi := hexNibble(s[i*2])
		lo := hexNibble(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

type stderrTracer struct {
	log *evmlog.Logger
}

func (t *stderrTracer) CaptureState(pc uint64, op vm.OpCode, gas uint64, fr *vm.Frame) {
	t.log.Debug("step", "pc", pc, "op", op, "gas", gas, "depth", fr.Depth())
}
