package cpu

import (
	"github.com/ezrec/evocpu/inst"
)

const (
	c_NOP  = inst.CLASS_NOP
	c_COND = inst.CLASS_CONDITIONAL
	c_FLOW = inst.CLASS_FLOW
	c_DATA = inst.CLASS_DATA
	c_MATH = inst.CLASS_ARITHMETIC
	c_LIFE = inst.CLASS_LIFECYCLE
	c_ENV  = inst.CLASS_ENVIRONMENT
	c_ETC  = inst.CLASS_OTHER

	f_DEF   = inst.FLAG_DEFAULT
	f_NOP   = inst.FLAG_NOP
	f_STALL = inst.FLAG_STALL
	f_SLEEP = inst.FLAG_SLEEP
)

// library lists every instruction. The DEFAULT flagged entries come first,
// in the order of the heads_default set; nop-A is the default fill.
var library = [...]Definition{
	{Name: "nop-A", Class: c_NOP, Flags: f_DEF | f_NOP, NopMod: 0, Func: instNop},
	{Name: "nop-B", Class: c_NOP, Flags: f_DEF | f_NOP, NopMod: 1, Func: instNop},
	{Name: "nop-C", Class: c_NOP, Flags: f_DEF | f_NOP, NopMod: 2, Func: instNop},
	{Name: "if-n-equ", Class: c_COND, Flags: f_DEF, Func: instIfNEqu},
	{Name: "if-less", Class: c_COND, Flags: f_DEF, Func: instIfLess},
	{Name: "if-label", Class: c_COND, Flags: f_DEF, Func: instIfLabel},
	{Name: "mov-head", Class: c_FLOW, Flags: f_DEF, Func: instMoveHead},
	{Name: "jmp-head", Class: c_FLOW, Flags: f_DEF, Func: instJumpHead},
	{Name: "get-head", Class: c_DATA, Flags: f_DEF, Func: instGetHead},
	{Name: "set-flow", Class: c_FLOW, Flags: f_DEF, Func: instSetFlow},
	{Name: "shift-r", Class: c_MATH, Flags: f_DEF, Func: instShiftR},
	{Name: "shift-l", Class: c_MATH, Flags: f_DEF, Func: instShiftL},
	{Name: "inc", Class: c_MATH, Flags: f_DEF, Func: instInc},
	{Name: "dec", Class: c_MATH, Flags: f_DEF, Func: instDec},
	{Name: "push", Class: c_DATA, Flags: f_DEF, Func: instPush},
	{Name: "pop", Class: c_DATA, Flags: f_DEF, Func: instPop},
	{Name: "swap-stk", Class: c_DATA, Flags: f_DEF, Func: instSwapStk},
	{Name: "swap", Class: c_DATA, Flags: f_DEF, Func: instSwap},
	{Name: "add", Class: c_MATH, Flags: f_DEF, Func: instAdd},
	{Name: "sub", Class: c_MATH, Flags: f_DEF, Func: instSub},
	{Name: "nand", Class: c_MATH, Flags: f_DEF, Func: instNand},
	{Name: "IO", Class: c_ENV, Flags: f_DEF | f_STALL, Func: instTaskIO},
	{Name: "h-alloc", Class: c_LIFE, Flags: f_DEF, Func: instMaxAlloc},
	{Name: "h-divide", Class: c_LIFE, Flags: f_DEF | f_STALL, Func: instHeadDivide},
	{Name: "h-copy", Class: c_LIFE, Flags: f_DEF, Func: instHeadCopy},
	{Name: "h-search", Class: c_FLOW, Flags: f_DEF, Func: instHeadSearch},

	{Name: "nop-X", Class: c_NOP, Func: instNop},

	{Name: "if-equ-0", Class: c_COND, Func: instIfEqu0},
	{Name: "if-not-0", Class: c_COND, Func: instIfNot0},
	{Name: "if-equ", Class: c_COND, Func: instIfEqu},
	{Name: "if-grt-0", Class: c_COND, Func: instIfGrt0},
	{Name: "if-grt", Class: c_COND, Func: instIfGrt},
	{Name: "if-less-0", Class: c_COND, Func: instIfLess0},
	{Name: "if-bit-1", Class: c_COND, Func: instIfBit1},

	{Name: "jump-f", Class: c_FLOW, Func: instJumpF},
	{Name: "jump-b", Class: c_FLOW, Func: instJumpB},
	{Name: "call", Class: c_FLOW, Func: instCall},
	{Name: "return", Class: c_FLOW, Func: instReturn},
	{Name: "set-head", Class: c_FLOW, Func: instSetHead},

	{Name: "flip-stk", Class: c_DATA, Func: instFlipStk},
	{Name: "copy-reg", Class: c_DATA, Func: instCopyReg},
	{Name: "set-num", Class: c_DATA, Func: instSetNum},

	{Name: "zero", Class: c_MATH, Func: instZero},
	{Name: "neg", Class: c_MATH, Func: instNeg},
	{Name: "square", Class: c_MATH, Func: instSquare},
	{Name: "sqrt", Class: c_MATH, Func: instSqrt},
	{Name: "log", Class: c_MATH, Func: instLog},
	{Name: "log10", Class: c_MATH, Func: instLog10},
	{Name: "mult", Class: c_MATH, Func: instMult},
	{Name: "div", Class: c_MATH, Func: instDiv},
	{Name: "mod", Class: c_MATH, Func: instMod},
	{Name: "nor", Class: c_MATH, Func: instNor},
	{Name: "and", Class: c_MATH, Func: instAnd},
	{Name: "or", Class: c_MATH, Func: instOr},
	{Name: "xor", Class: c_MATH, Func: instXor},
	{Name: "not", Class: c_MATH, Func: instNot},
	{Name: "order", Class: c_MATH, Func: instOrder},

	{Name: "adv-head", Class: c_FLOW, Func: instAdvanceHead},
	{Name: "h-push", Class: c_DATA, Func: instHeadPush},
	{Name: "h-pop", Class: c_DATA, Func: instHeadPop},
	{Name: "h-read", Class: c_LIFE, Func: instHeadRead},
	{Name: "h-write", Class: c_LIFE, Func: instHeadWrite},
	{Name: "h-divide0", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivide0},
	{Name: "h-divide1", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivide1},
	{Name: "h-divide2", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivide2},
	{Name: "h-divideRS", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivideRS},
	{Name: "h-divide1RS", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivide1RS},
	{Name: "h-divide2RS", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivide2RS},
	{Name: "h-divide-exact", Class: c_LIFE, Flags: f_STALL, Func: instHeadDivideExact},

	{Name: "allocate", Class: c_LIFE, Func: instAllocate},
	{Name: "c-alloc", Class: c_LIFE, Func: instCAlloc},
	{Name: "divide", Class: c_LIFE, Flags: f_STALL, Func: instDivide},
	{Name: "c-divide", Class: c_LIFE, Flags: f_STALL, Func: instCDivide},
	{Name: "copy", Class: c_LIFE, Func: instCopy},
	{Name: "read", Class: c_LIFE, Func: instRead},
	{Name: "write", Class: c_LIFE, Func: instWrite},
	{Name: "compare", Class: c_LIFE, Func: instCompare},
	{Name: "if-n-cpy", Class: c_COND, Func: instIfNCpy},
	{Name: "repro", Class: c_LIFE, Flags: f_STALL, Func: instRepro},

	{Name: "fork-th", Class: c_ETC, Func: instForkThread},
	{Name: "kill-th", Class: c_ETC, Func: instKillThread},
	{Name: "id-th", Class: c_ETC, Func: instThreadID},
	{Name: "wait-msg", Class: c_ETC, Func: instWaitMessage},

	{Name: "get", Class: c_ENV, Flags: f_STALL, Func: instTaskGet},
	{Name: "put", Class: c_ENV, Flags: f_STALL, Func: instTaskPut},
	{Name: "rotate-l", Class: c_ENV, Func: instRotateL},
	{Name: "rotate-r", Class: c_ENV, Func: instRotateR},
	{Name: "rotate-label", Class: c_ENV, Func: instRotateLabel},
	{Name: "move", Class: c_ENV, Flags: f_STALL, Func: instMove},
	{Name: "sense", Class: c_ENV, Func: instSense},
	{Name: "send-msg", Class: c_ENV, Flags: f_STALL, Func: instSendMessage},
	{Name: "retrieve-msg", Class: c_ENV, Func: instRetrieveMessage},
	{Name: "donate", Class: c_ENV, Flags: f_STALL, Func: instDonate},
	{Name: "set-opinion", Class: c_ENV, Func: instSetOpinion},
	{Name: "get-opinion", Class: c_ENV, Func: instGetOpinion},
	{Name: "join-group", Class: c_ENV, Func: instJoinGroup},
	{Name: "group-size", Class: c_ENV, Func: instGroupSize},
	{Name: "deme-size", Class: c_ENV, Func: instDemeSize},
	{Name: "sleep", Class: c_ENV, Flags: f_SLEEP, Func: instNop},
	{Name: "die", Class: c_LIFE, Func: instDie},

	{Name: "promoter", Class: c_ETC, Func: instNop},
	{Name: "terminate", Class: c_FLOW, Func: instTerminate},
	{Name: "regulate", Class: c_ETC, Func: instRegulate},
	{Name: "regulate-sp", Class: c_ETC, Func: instRegulateSpecific},
	{Name: "numberate", Class: c_DATA, Func: instNumberate},
	{Name: "numberate-24", Class: c_DATA, Func: instNumberate24},
	{Name: "bit-cons", Class: c_MATH, Func: instBitConsensus},
	{Name: "bit-cons-24", Class: c_MATH, Func: instBitConsensus24},
	{Name: "execurate", Class: c_DATA, Func: instExecurate},
	{Name: "execurate-24", Class: c_DATA, Func: instExecurate24},
}
