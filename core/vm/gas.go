package vm

// Gas cost constants through the Cancun hard fork. Tier names follow the
// Yellow Paper Appendix G: Gzero=0, Gbase=2, Gverylow=3, Glow=5, Gmid=8,
// Ghigh=10, Gext=20.
const (
	GasZero    uint64 = 0
	GasBase    uint64 = 2
	GasVerylow uint64 = 3
	GasLow     uint64 = 5
	GasMid     uint64 = 8
	GasHigh    uint64 = 10
	GasExt     uint64 = 20

	GasJumpDest uint64 = 1

	GasPush0 uint64 = 2 // EIP-3855

	// EIP-2929 warm/cold access costs (Berlin+).
	WarmStorageReadCost   uint64 = 100
	ColdSloadCost         uint64 = 2100
	ColdAccountAccessCost uint64 = 2600

	// Pre-Berlin, post-Tangerine-Whistle flat account-access cost (EIP-150),
	// for EXTCODESIZE/EXTCODECOPY/EXTCODEHASH.
	AccountAccessGasTangerine uint64 = 700
	// Pre-Berlin flat BALANCE cost (400 from Tangerine Whistle, 700 from
	// Istanbul per EIP-1884).
	BalanceGasTangerine uint64 = 400
	BalanceGasIstanbul  uint64 = 700
	// Pre-Tangerine-Whistle flat account-access cost.
	AccountAccessGasFrontier uint64 = 20
	// Pre-Berlin flat SLOAD cost from Istanbul (EIP-1884).
	SloadGasIstanbul uint64 = 800
	// Pre-Istanbul flat SLOAD cost.
	SloadGasFrontier uint64 = 200

	// SSTORE (EIP-2200/2929/3529).
	SstoreSentryGasEIP2200 uint64 = 2300
	SstoreSetGas           uint64 = 20000
	SstoreResetGas         uint64 = 2900
	SstoreClearRefund      uint64 = 4800 // post EIP-3529
	SstoreClearRefundPre3529 uint64 = 15000
	SstoreSetGasLegacy     uint64 = 20000 // pre-EIP-2200 legacy SSTORE
	SstoreClearGasLegacy   uint64 = 5000
	SstoreResetGasLegacy   uint64 = 5000

	// Transient storage (EIP-1153, Cancun+).
	GasTload  uint64 = 100
	GasTstore uint64 = 100

	// KECCAK256.
	Keccak256Gas     uint64 = 30
	Keccak256WordGas uint64 = 6

	// Copy-family per-word cost (CALLDATACOPY, CODECOPY, RETURNDATACOPY,
	// EXTCODECOPY dynamic component).
	CopyGas uint64 = 3

	// MCOPY (EIP-5656, Cancun+).
	McopyGas uint64 = 3

	// LOG0..LOG4.
	LogGas      uint64 = 375
	LogTopicGas uint64 = 375
	LogDataGas  uint64 = 8

	// EXP (EIP-160, Spurious Dragon+: 50/byte; before that 10/byte flat 10 base).
	ExpGas             uint64 = 10
	ExpByteGasFrontier uint64 = 10
	ExpByteGasEIP160   uint64 = 50

	// CALL family value-transfer / new-account surcharges.
	CallValueTransferGas uint64 = 9000
	CallNewAccountGas    uint64 = 25000
	CallStipend          uint64 = 2300

	// Pre-Berlin CALL-family base costs.
	CallGasEIP150    uint64 = 700
	CallGasFrontier  uint64 = 40

	// CREATE / CREATE2.
	CreateGas          uint64 = 32000
	Create2WordGas      uint64 = 6 // per word, hashing the init code
	InitCodeWordGas     uint64 = 2 // EIP-3860, per word of init code
	CreateDataGas       uint64 = 200 // per byte of deployed code (deposit cost)
	MaxCodeSize                 = 24576
	MaxInitCodeSize             = 2 * MaxCodeSize

	// SELFDESTRUCT.
	SelfdestructGas            uint64 = 5000
	SelfdestructRefundGas      uint64 = 24000 // pre-London only

	// CallCreateDepth is the maximum call/create nesting depth (1024).
	CallCreateDepth = 1024

	// CallGasFractionDivisor implements the EIP-150 63/64 rule: forward
	// gas_after_extras - gas_after_extras/64.
	CallGasFractionDivisor uint64 = 64
)
