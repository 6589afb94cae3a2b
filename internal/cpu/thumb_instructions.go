package cpu

// ThumbFormat identifies which of the 19 Thumb instruction encodings a
// 16-bit word belongs to (spec §4.5).
type ThumbFormat uint8

const (
	ThumbMoveShifted ThumbFormat = iota
	ThumbAddSub
	ThumbImmediateOp
	ThumbALU
	ThumbHiRegBX
	ThumbPCRelLoad
	ThumbLoadStoreReg
	ThumbLoadStoreSext
	ThumbLoadStoreImm
	ThumbLoadStoreHalf
	ThumbSPRelLoadStore
	ThumbLoadAddress
	ThumbAddSP
	ThumbPushPop
	ThumbMultipleLoadStore
	ThumbCondBranch
	ThumbSWI
	ThumbUncondBranch
	ThumbLongBranchLink
)
