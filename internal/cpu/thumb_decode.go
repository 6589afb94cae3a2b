package cpu

// classifyThumb maps a 16-bit Thumb opcode to its format by matching the
// fixed high bits each encoding reserves (spec §4.5). Checked from the
// most specific prefix to the least, since several formats share a common
// leading nibble (e.g. conditional branch vs SWI vs undefined both start
// 1101).
func classifyThumb(raw uint16) ThumbFormat {
	switch {
	case raw&0xF800 == 0x1800:
		return ThumbAddSub
	case raw&0xE000 == 0x0000:
		return ThumbMoveShifted
	case raw&0xE000 == 0x2000:
		return ThumbImmediateOp
	case raw&0xFC00 == 0x4000:
		return ThumbALU
	case raw&0xFC00 == 0x4400:
		return ThumbHiRegBX
	case raw&0xF800 == 0x4800:
		return ThumbPCRelLoad
	case raw&0xF200 == 0x5000:
		return ThumbLoadStoreReg
	case raw&0xF200 == 0x5200:
		return ThumbLoadStoreSext
	case raw&0xE000 == 0x6000:
		return ThumbLoadStoreImm
	case raw&0xF000 == 0x8000:
		return ThumbLoadStoreHalf
	case raw&0xF000 == 0x9000:
		return ThumbSPRelLoadStore
	case raw&0xF000 == 0xA000:
		return ThumbLoadAddress
	case raw&0xFF00 == 0xB000:
		return ThumbAddSP
	case raw&0xF600 == 0xB400:
		return ThumbPushPop
	case raw&0xF000 == 0xC000:
		return ThumbMultipleLoadStore
	case raw&0xFF00 == 0xDF00:
		return ThumbSWI
	case raw&0xF000 == 0xD000:
		return ThumbCondBranch
	case raw&0xF800 == 0xE000:
		return ThumbUncondBranch
	case raw&0xF000 == 0xF000:
		return ThumbLongBranchLink
	default:
		return ThumbUncondBranch
	}
}
