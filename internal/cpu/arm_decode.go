package cpu

// DecodeInstruction_Arm classifies a 32-bit ARM instruction word and returns
// the matching instruction struct. Classification follows ARM7TDMI's bit
// layout (condition in 31-28, instruction class in 27-25) with the
// bits-7-4 special cases (multiply, multiply-long, swap, halfword/signed
// transfer, branch-exchange, PSR transfer) recognized ahead of the generic
// data-processing fallback they would otherwise be misread as.
func DecodeInstruction_Arm(instruction uint32) interface{} {
	cond := ARMCondition((instruction >> 28) & 0x0F)

	// Branch and Exchange: Cond_0001_0010_1111_1111_1111_0001_Rm
	if instruction&0x0FFFFFF0 == 0x012FFF10 {
		return ARMBranchExchangeInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			Rm:             uint8(instruction & 0x0F),
		}
	}

	// Multiply / Multiply-Accumulate: Cond_000000_A_S_Rd_Rn_Rs_1001_Rm
	if instruction&0x0FC000F0 == 0x00000090 {
		return ARMMultiplyInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			A:              (instruction>>21)&0x01 != 0,
			S:              (instruction>>20)&0x01 != 0,
			Rd:             uint8((instruction >> 16) & 0x0F),
			Rn:             uint8((instruction >> 12) & 0x0F),
			Rs:             uint8((instruction >> 8) & 0x0F),
			Rm:             uint8(instruction & 0x0F),
		}
	}

	// Multiply Long: Cond_00001_U_A_S_RdHi_RdLo_Rs_1001_Rm
	if instruction&0x0F8000F0 == 0x00800090 {
		return ARMMultiplyLongInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			Signed:         (instruction>>22)&0x01 != 0,
			A:              (instruction>>21)&0x01 != 0,
			S:              (instruction>>20)&0x01 != 0,
			RdHi:           uint8((instruction >> 16) & 0x0F),
			RdLo:           uint8((instruction >> 12) & 0x0F),
			Rs:             uint8((instruction >> 8) & 0x0F),
			Rm:             uint8(instruction & 0x0F),
		}
	}

	// Single Data Swap: Cond_00010_B_00_Rn_Rd_0000_1001_Rm
	if instruction&0x0FB00FF0 == 0x01000090 {
		return ARMSwapInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			B:              (instruction>>22)&0x01 != 0,
			Rn:             uint8((instruction >> 16) & 0x0F),
			Rd:             uint8((instruction >> 12) & 0x0F),
			Rm:             uint8(instruction & 0x0F),
		}
	}

	// Halfword and Signed Data Transfer: Cond_000_P_U_I_W_L_Rn_Rd_offhi_1_SH_1_offlo/Rm
	if instruction&0x0E000090 == 0x00000090 && (instruction>>5)&0x03 != 0 {
		immediate := (instruction>>22)&0x01 != 0
		h := ARMHalfwordTransferInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			P:              (instruction>>24)&0x01 != 0,
			U:              (instruction>>23)&0x01 != 0,
			W:              (instruction>>21)&0x01 != 0,
			L:              (instruction>>20)&0x01 != 0,
			Rn:             uint8((instruction >> 16) & 0x0F),
			Rd:             uint8((instruction >> 12) & 0x0F),
			Immediate:      immediate,
			SH:             uint8((instruction >> 5) & 0x03),
		}
		if immediate {
			h.OffsetImm = uint8((instruction>>4)&0xF0) | uint8(instruction&0x0F)
		} else {
			h.Rm = uint8(instruction & 0x0F)
		}
		return h
	}

	// PSR Transfer: MRS Cond_00010_Ps_001111_Rd_000000000, MSR register and
	// immediate forms share bits 27-23 = 00010 / 00 with S=0 and are
	// distinguished from TST/TEQ/CMP/CMN (which also have S=0 impossible,
	// since those always set flags) by opcode bits 24-21 in {10,11} and S=0.
	if instruction&0x0FBF0FFF == 0x010F0000 {
		return ARMPSRTransferInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			ToCPSR:         (instruction>>22)&0x01 == 0,
			Write:          false,
			Rd:             uint8((instruction >> 12) & 0x0F),
		}
	}
	if instruction&0x0DB0F000 == 0x0120F000 && (instruction>>16)&0x0F != 0 {
		p := ARMPSRTransferInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			ToCPSR:         (instruction>>22)&0x01 == 0,
			Write:          true,
			FieldMask:      uint8((instruction >> 16) & 0x0F),
			Immediate:      (instruction>>25)&0x01 != 0,
		}
		if p.Immediate {
			p.RotImm = uint8((instruction >> 8) & 0x0F)
			p.Imm8 = uint8(instruction & 0xFF)
		} else {
			p.Rm = uint8(instruction & 0x0F)
		}
		return p
	}

	switch (instruction >> 26) & 0x03 {
	case 0: // 00: Data Processing (immediate or register-shifted operand 2)
		I := (instruction>>25)&0x01 != 0
		S := (instruction>>20)&0x01 != 0
		Rn := uint8((instruction >> 16) & 0x0F)
		Rd := uint8((instruction >> 12) & 0x0F)
		shiftType := uint8((instruction >> 5) & 0x03)
		R := (instruction>>4)&0x01 != 0
		Rm := uint8(instruction & 0x0F)

		var Is, Rs, Nn uint8
		switch {
		case I:
			Is = uint8((instruction >> 8) & 0x0F)
			Nn = uint8(instruction & 0xFF)
		case R:
			Rs = uint8((instruction >> 8) & 0x0F)
		default:
			Is = uint8((instruction >> 7) & 0x1F)
		}

		return ARMDataProcessingInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			I:              I,
			Opcode:         ARMDataProcessingOperation((instruction >> 21) & 0x0F),
			S:              S,
			Rn:             Rn,
			Rd:             Rd,
			ShiftType:      ARMShiftType(shiftType),
			R:              R,
			Is:             Is,
			Rs:             Rs,
			Nn:             Nn,
			Rm:             Rm,
		}

	case 1: // 01: Single Data Transfer (LDR/STR/LDRB/STRB)
		regOffset := (instruction>>25)&0x01 != 0
		ls := ARMLoadStoreInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			P:              (instruction>>24)&0x01 != 0,
			U:              (instruction>>23)&0x01 != 0,
			B:              (instruction>>22)&0x01 != 0,
			W:              (instruction>>21)&0x01 != 0,
			L:              (instruction>>20)&0x01 != 0,
			Rn:             uint8((instruction >> 16) & 0x0F),
			Rd:             uint8((instruction >> 12) & 0x0F),
			RegOffset:      regOffset,
		}
		if regOffset {
			ls.ShiftType = ARMShiftType((instruction >> 5) & 0x03)
			ls.ShiftAmount = uint8((instruction >> 7) & 0x1F)
			ls.Rm = uint8(instruction & 0x0F)
		} else {
			ls.Offset = instruction & 0x0FFF
		}
		return ls

	case 2: // 10: Block Data Transfer (bit25=0) or Branch/BL (bit25=1)
		if (instruction>>25)&0x01 == 0 {
			return ARMBlockDataTransferInstruction{
				ARMInstruction: ARMInstruction{Cond: cond},
				P:              (instruction>>24)&0x01 != 0,
				U:              (instruction>>23)&0x01 != 0,
				S:              (instruction>>22)&0x01 != 0,
				W:              (instruction>>21)&0x01 != 0,
				L:              (instruction>>20)&0x01 != 0,
				Rn:             uint8((instruction >> 16) & 0x0F),
				RegisterList:   uint16(instruction & 0xFFFF),
			}
		}

		offset := instruction & 0x00FFFFFF
		if offset&0x00800000 != 0 {
			offset |= 0xFF000000
		}
		return ARMBranchInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			Link:           (instruction>>24)&0x01 != 0,
			TargetAddr:     offset << 2,
		}

	default: // 11: Software Interrupt or coprocessor (undefined on GBA)
		if (instruction>>24)&0x0F == 0x0F {
			return ARMSWIInstruction{
				ARMInstruction: ARMInstruction{Cond: cond},
				Immediate:      instruction & 0x00FFFFFF,
			}
		}
		return ARMControlInstruction{
			ARMInstruction: ARMInstruction{Cond: cond},
			Opcode:         instruction & 0x0FFFFFFF,
		}
	}
}
