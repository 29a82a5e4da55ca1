package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
	"github.com/evmts/xvi-sub001/crypto"
)

// Evm owns every piece of state that lives for the duration of one
// transaction and is shared across every Frame it spawns: chain and block
// parameters, the active fork, the warm/cold access list, the refund
// counter, transient storage, logs, and the created/selfdestructed account
// sets. It is the sole mutator of this shared state; a Frame never reaches
// into another Frame's stack, memory or gas meter.
type Evm struct {
	Host       Host
	Context    BlockContext
	TxContext  TxContext
	Fork       Fork
	ChainID    uint64
	AccessList *AccessList

	Tracer Tracer

	refund uint64

	transient map[types.Address]map[types.Hash]types.Hash

	createdThisTx  map[types.Address]bool
	selfdestructed map[types.Address]bool

	logs []types.Log

	depth int
}

// NewEvm constructs an Evm ready to process one transaction. precompiles is
// used only to pre-warm the access list per EIP-2929 (Berlin on); which
// addresses dispatch as precompiles is decided by Host.IsPrecompile.
func NewEvm(host Host, blockCtx BlockContext, txCtx TxContext, fork Fork, chainID uint64, to *types.Address, precompiles []types.Address, accessList []AccessTuple) *Evm {
	evm := &Evm{
		Host:           host,
		Context:        blockCtx,
		TxContext:      txCtx,
		Fork:           fork,
		ChainID:        chainID,
		AccessList:     NewAccessList(),
		transient:      make(map[types.Address]map[types.Hash]types.Hash),
		createdThisTx:  make(map[types.Address]bool),
		selfdestructed: make(map[types.Address]bool),
	}
	if fork.IsAtLeast(Berlin) {
		evm.AccessList.PrePopulate(txCtx.Origin, to, precompiles, accessList)
	}
	return evm
}

// RefundCounter returns the accumulated gas refund, applied by the caller
// outside the core per spec (the core never subtracts it from a frame's
// meter itself).
func (evm *Evm) RefundCounter() uint64 { return evm.refund }

func (evm *Evm) addRefund(amount uint64) { evm.refund += amount }

func (evm *Evm) subRefund(amount uint64) {
	if amount > evm.refund {
		evm.refund = 0
		return
	}
	evm.refund -= amount
}

// Logs returns every log appended so far this transaction, in order.
func (evm *Evm) Logs() []types.Log { return evm.logs }

// AddLog appends a log entry. Logs are truncated back to their
// snapshot-time length by revertTo.
func (evm *Evm) AddLog(l types.Log) { evm.logs = append(evm.logs, l) }

// TransientStorageGet reads EIP-1153 transient storage, scoped to this
// transaction and zero-initialized.
func (evm *Evm) TransientStorageGet(addr types.Address, key types.Hash) types.Hash {
	slots, ok := evm.transient[addr]
	if !ok {
		return types.Hash{}
	}
	return slots[key]
}

// TransientStorageSet writes EIP-1153 transient storage.
func (evm *Evm) TransientStorageSet(addr types.Address, key, value types.Hash) {
	slots, ok := evm.transient[addr]
	if !ok {
		slots = make(map[types.Hash]types.Hash)
		evm.transient[addr] = slots
	}
	slots[key] = value
}

// MarkCreated records that addr was created by CREATE/CREATE2 in this
// transaction, which EIP-6780 uses to decide whether a subsequent
// SELFDESTRUCT actually destroys the account.
func (evm *Evm) MarkCreated(addr types.Address) { evm.createdThisTx[addr] = true }

// CreatedThisTx reports whether addr was created earlier in this
// transaction.
func (evm *Evm) CreatedThisTx(addr types.Address) bool { return evm.createdThisTx[addr] }

// MarkSelfdestructed records that addr executed SELFDESTRUCT. Pre-Cancun
// this is the set the caller uses to actually delete accounts and apply the
// legacy refund at transaction end; post-Cancun it is informational only
// unless CreatedThisTx is also true.
func (evm *Evm) MarkSelfdestructed(addr types.Address) { evm.selfdestructed[addr] = true }

// HasSelfdestructed reports whether addr has already executed SELFDESTRUCT
// this transaction.
func (evm *Evm) HasSelfdestructed(addr types.Address) bool { return evm.selfdestructed[addr] }

// snapshot is everything a failed or reverted sub-call must unwind beyond
// what Host.Snapshot/RevertToSnapshot already covers (balances, nonces,
// code, storage): access-list warmness, the refund counter, log length, and
// the created-this-tx set. Host state and this journal are always
// snapshotted and reverted together so they stay consistent.
type snapshot struct {
	hostID        int
	accessListID  int
	refund        uint64
	logLen        int
	createdLen    []types.Address
}

func (evm *Evm) snapshot() snapshot {
	created := make([]types.Address, 0, len(evm.createdThisTx))
	for a := range evm.createdThisTx {
		created = append(created, a)
	}
	return snapshot{
		hostID:       evm.Host.Snapshot(),
		accessListID: evm.AccessList.Snapshot(),
		refund:       evm.refund,
		logLen:       len(evm.logs),
		createdLen:   created,
	}
}

func (evm *Evm) revertTo(s snapshot) {
	evm.Host.RevertToSnapshot(s.hostID)
	evm.AccessList.RevertToSnapshot(s.accessListID)
	evm.refund = s.refund
	evm.logs = evm.logs[:s.logLen]
	// createdThisTx only grows during a sub-call that is now being undone;
	// entries present before the snapshot are kept, later ones dropped.
	before := make(map[types.Address]bool, len(s.createdLen))
	for _, a := range s.createdLen {
		before[a] = true
	}
	for a := range evm.createdThisTx {
		if !before[a] {
			delete(evm.createdThisTx, a)
		}
	}
}

// CallKind distinguishes the CALL-family opcodes' differing caller/address/
// value/staticness semantics.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
)

// CallResult is the outcome of a Call or Create, mirroring what the calling
// Frame needs to push/copy back: whether it succeeded, the output/return
// data, and unspent gas to refund to the caller.
type CallResult struct {
	Success      bool
	ReturnData   []byte
	RemainingGas uint64
}

// Call executes a CALL/CALLCODE/STATICCALL sub-message (DELEGATECALL goes
// through callDelegate instead). caller is the account the callee sees as
// CALLER and that pays any value; addr is the account whose code executes
// and which is checked against the precompiles; execAddr is the account whose
// storage/balance the callee reads and writes ("self" from the callee code's
// point of view): addr for CALL/STATICCALL, the calling frame's own address
// for CALLCODE.
func (evm *Evm) Call(kind CallKind, caller types.Address, addr types.Address, execAddr types.Address, input []byte, gas uint64, value *uint256.Int, static bool) CallResult {
	if evm.depth >= CallCreateDepth {
		return CallResult{RemainingGas: gas}
	}
	if value == nil {
		value = new(uint256.Int)
	}

	if kind == CallKindCall || kind == CallKindCallCode {
		if !value.IsZero() {
			if static {
				return CallResult{RemainingGas: gas}
			}
			if evm.Host.GetBalance(caller).Lt(value) {
				return CallResult{RemainingGas: gas}
			}
		}
	}

	snap := evm.snapshot()

	if kind == CallKindCall && !value.IsZero() {
		evm.Host.SetBalance(caller, new(uint256.Int).Sub(evm.Host.GetBalance(caller), value))
		evm.Host.SetBalance(execAddr, new(uint256.Int).Add(evm.Host.GetBalance(execAddr), value))
	}

	if evm.Host.IsPrecompile(addr) {
		ret, remaining, err := evm.Host.RunPrecompile(addr, input, gas)
		if err != nil {
			evm.revertTo(snap)
			return CallResult{RemainingGas: 0}
		}
		return CallResult{Success: true, ReturnData: ret, RemainingGas: remaining}
	}

	code := evm.Host.GetCode(addr)
	if len(code) == 0 {
		return CallResult{Success: true, RemainingGas: gas}
	}

	evm.depth++
	fr := NewFrame(caller, execAddr, code, evm.Host.GetCodeHash(addr), input, value, gas, static, evm.depth)
	output, err := evm.run(fr)
	evm.depth--

	if err != nil && err != ErrExecutionReverted {
		evm.revertTo(snap)
		return CallResult{RemainingGas: 0, ReturnData: nil}
	}
	if err == ErrExecutionReverted {
		evm.revertTo(snap)
		return CallResult{Success: false, ReturnData: output, RemainingGas: fr.Gas()}
	}
	return CallResult{Success: true, ReturnData: output, RemainingGas: fr.Gas()}
}

// callDelegate executes DELEGATECALL: addr's code runs against the calling
// frame's own address, caller and value, so storage, balance, CALLER and
// CALLVALUE inside the callee all observe the calling frame's identity
// rather than the target's.
func (evm *Evm) callDelegate(fr *Frame, addr types.Address, input []byte, gas uint64) CallResult {
	if evm.depth >= CallCreateDepth {
		return CallResult{RemainingGas: gas}
	}
	if evm.Host.IsPrecompile(addr) {
		ret, remaining, err := evm.Host.RunPrecompile(addr, input, gas)
		if err != nil {
			return CallResult{RemainingGas: 0}
		}
		return CallResult{Success: true, ReturnData: ret, RemainingGas: remaining}
	}
	code := evm.Host.GetCode(addr)
	if len(code) == 0 {
		return CallResult{Success: true, RemainingGas: gas}
	}

	snap := evm.snapshot()
	evm.depth++
	child := NewFrame(fr.Caller, fr.Address, code, evm.Host.GetCodeHash(addr), input, fr.Value, gas, fr.Static, evm.depth)
	output, err := evm.run(child)
	evm.depth--

	if err != nil && err != ErrExecutionReverted {
		evm.revertTo(snap)
		return CallResult{RemainingGas: 0}
	}
	if err == ErrExecutionReverted {
		evm.revertTo(snap)
		return CallResult{Success: false, ReturnData: output, RemainingGas: child.Gas()}
	}
	return CallResult{Success: true, ReturnData: output, RemainingGas: child.Gas()}
}

// run drives one Frame's fetch-dispatch-execute loop to completion (STOP,
// RETURN, REVERT, or an error) and returns its output.
func (evm *Evm) run(fr *Frame) ([]byte, error) {
	return Run(evm, fr)
}

// CreateResult is the outcome of CREATE/CREATE2.
type CreateResult struct {
	Success      bool
	Address      types.Address
	ReturnData   []byte
	RemainingGas uint64
}

// Create executes CREATE (addr = keccak256(rlp([sender, nonce]))[12:]).
func (evm *Evm) Create(caller types.Address, initCode []byte, gas uint64, value *uint256.Int, static bool) CreateResult {
	nonce := evm.Host.GetNonce(caller)
	addr := CreateAddress(caller, nonce)
	return evm.create(caller, addr, initCode, gas, value, static)
}

// Create2 executes CREATE2 (addr = keccak256(0xff ++ sender ++ salt ++
// keccak256(initCode))[12:]).
func (evm *Evm) Create2(caller types.Address, initCode []byte, gas uint64, value *uint256.Int, salt *uint256.Int, static bool) CreateResult {
	addr := Create2Address(caller, salt, initCode)
	return evm.create(caller, addr, initCode, gas, value, static)
}

// CreateAddress derives the CREATE contract address.
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	return types.BytesToAddress(crypto.Keccak256(rlpEncodeCreate(sender, nonce))[12:])
}

// Create2Address derives the CREATE2 contract address.
func Create2Address(sender types.Address, salt *uint256.Int, initCode []byte) types.Address {
	saltBytes := salt.Bytes32()
	initCodeHash := crypto.Keccak256(initCode)
	data := make([]byte, 0, 1+20+32+32)
	data = append(data, 0xff)
	data = append(data, sender[:]...)
	data = append(data, saltBytes[:]...)
	data = append(data, initCodeHash...)
	return types.BytesToAddress(crypto.Keccak256(data)[12:])
}

// rlpEncodeCreate encodes [sender, nonce] as RLP, the minimal subset needed
// for CREATE address derivation (nonce is always a non-negative integer, and
// sender is always exactly 20 bytes, so no general-purpose RLP encoder is
// needed here).
func rlpEncodeCreate(sender types.Address, nonce uint64) []byte {
	nonceBytes := rlpUint(nonce)
	senderRLP := append([]byte{0x80 + 20}, sender[:]...)
	nonceRLP := rlpBytes(nonceBytes)
	payload := append(senderRLP, nonceRLP...)
	return append(rlpListHeader(len(payload)), payload...)
}

func rlpUint(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte(n)}, b...)
		n >>= 8
	}
	return b
}

func rlpBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	if len(b) < 56 {
		return append([]byte{0x80 + byte(len(b))}, b...)
	}
	lenBytes := rlpUint(uint64(len(b)))
	return append(append([]byte{0xb7 + byte(len(lenBytes))}, lenBytes...), b...)
}

func rlpListHeader(payloadLen int) []byte {
	if payloadLen < 56 {
		return []byte{0xc0 + byte(payloadLen)}
	}
	lenBytes := rlpUint(uint64(payloadLen))
	return append([]byte{0xf7 + byte(len(lenBytes))}, lenBytes...)
}

// create implements the shared body of CREATE/CREATE2: EIP-2929
// warm-before-collision-check, collision check, caller nonce bump, snapshot,
// EIP-161 new-account nonce, value transfer, init-code execution, and
// deployed-code validation/deposit.
func (evm *Evm) create(caller, addr types.Address, initCode []byte, gas uint64, value *uint256.Int, static bool) CreateResult {
	if static {
		return CreateResult{RemainingGas: gas}
	}
	if evm.depth >= CallCreateDepth {
		return CreateResult{RemainingGas: gas}
	}
	if value == nil {
		value = new(uint256.Int)
	}
	if evm.Host.GetBalance(caller).Lt(value) {
		return CreateResult{RemainingGas: gas}
	}

	if evm.Fork.IsAtLeast(Berlin) {
		evm.AccessList.TouchAddress(addr)
	}

	if evm.accountCollision(addr) {
		return CreateResult{RemainingGas: gas}
	}

	callerNonce := evm.Host.GetNonce(caller)
	evm.Host.SetNonce(caller, callerNonce+1)

	// Snapshot after the caller's nonce bump: the caller's nonce increments
	// exactly once even when every later step here fails and reverts, while
	// the new account's nonce and created-this-tx mark are unwound.
	snap := evm.snapshot()
	evm.Host.SetNonce(addr, 1)
	evm.MarkCreated(addr)

	if !value.IsZero() {
		evm.Host.SetBalance(caller, new(uint256.Int).Sub(evm.Host.GetBalance(caller), value))
		evm.Host.SetBalance(addr, new(uint256.Int).Add(evm.Host.GetBalance(addr), value))
	}

	evm.depth++
	fr := NewFrame(caller, addr, initCode, types.Hash{}, nil, value, gas, false, evm.depth)
	fr.SetReturnData(nil)
	output, err := evm.run(fr)
	evm.depth--

	if err != nil {
		evm.revertTo(snap)
		remaining := uint64(0)
		if err == ErrExecutionReverted {
			remaining = fr.Gas()
		}
		return CreateResult{RemainingGas: remaining, ReturnData: output}
	}

	if len(output) > MaxCodeSize {
		evm.revertTo(snap)
		return CreateResult{RemainingGas: 0}
	}
	if evm.Fork.IsAtLeast(London) && len(output) > 0 && output[0] == 0xEF {
		evm.revertTo(snap)
		return CreateResult{RemainingGas: 0}
	}

	depositGas := CreateDataGas * uint64(len(output))
	if err := fr.consume(depositGas); err != nil {
		evm.revertTo(snap)
		return CreateResult{RemainingGas: 0}
	}
	evm.Host.SetCode(addr, output)

	return CreateResult{Success: true, Address: addr, RemainingGas: fr.Gas()}
}

// accountCollision reports whether addr already hosts code or a non-zero
// nonce, which forbids CREATE/CREATE2 from deploying over it.
func (evm *Evm) accountCollision(addr types.Address) bool {
	return evm.Host.GetNonce(addr) != 0 || len(evm.Host.GetCode(addr)) != 0
}
