package cpu

// executeArm dispatches a decoded ARM instruction. pcAddr is the address of
// the instruction word itself; R15 reads during execution use pcAddr+8 per
// the ARM7TDMI pipeline convention (spec §4.1/§4.4).
func (c *CPU) executeArm(decoded interface{}, pcAddr uint32) int {
	switch inst := decoded.(type) {
	case ARMDataProcessingInstruction:
		return c.execArm_DataProcessing(inst, pcAddr)
	case ARMMultiplyInstruction:
		return c.execArm_Multiply(inst)
	case ARMMultiplyLongInstruction:
		return c.execArm_MultiplyLong(inst)
	case ARMSwapInstruction:
		return c.execArm_Swap(inst)
	case ARMBranchExchangeInstruction:
		return c.execArm_BX(inst)
	case ARMPSRTransferInstruction:
		return c.execArm_PSRTransfer(inst)
	case ARMHalfwordTransferInstruction:
		return c.execArm_HalfwordTransfer(inst, pcAddr)
	case ARMLoadStoreInstruction:
		return c.execArm_LoadStore(inst, pcAddr)
	case ARMBranchInstruction:
		return c.execArm_Branch(inst, pcAddr)
	case ARMBlockDataTransferInstruction:
		return c.execArm_BlockDataTransfer(inst, pcAddr)
	case ARMSWIInstruction:
		c.TriggerSWI()
		return cyclesSWI
	case ARMControlInstruction:
		// Coprocessor and other undefined encodings execute as 1-cycle
		// no-ops; the Undefined exception is not taken.
		return 1
	default:
		return 1
	}
}

// readOperandReg reads register n as it would be seen mid-instruction: R15
// reads as pcAddr+8, everything else is the live register file value.
func (c *CPU) readOperandReg(n uint8, pcAddr uint32) uint32 {
	if n == 15 {
		return pcAddr + 8
	}
	return c.Registers.Get(n)
}

// loadWordRotated reads the aligned word containing addr and, for a
// misaligned addr, rotates it right by (addr&3)*8 bits — the ARM7TDMI's
// documented misaligned LDR behavior, shared by ARM LDR and Thumb formats
// 7/9/11 (spec §4.5). A rotate amount of 0 (the aligned case) must pass
// the word through unchanged, so this uses the non-immediate ROR path
// rather than its RRX-on-zero immediate-shift special case.
func (c *CPU) loadWordRotated(addr uint32) uint32 {
	raw := c.Bus.Read32(addr &^ 3)
	rot := (addr & 3) * 8
	value, _ := barrelShift(ShiftROR, raw, int(rot), false, false)
	return value
}

// calcOp2Arm resolves a data-processing Operand2, returning the value and
// the carry the barrel shifter would feed the ALU.
func (c *CPU) calcOp2Arm(inst ARMDataProcessingInstruction, pcAddr uint32) (uint32, bool) {
	if inst.I {
		// Immediate operand2: rotate by 2*rot4. rot4==0 means no rotation
		// at all, carry unchanged — not RRX, so use the register-ROR
		// (non-immediate) zero-amount pass-through.
		return barrelShift(ShiftROR, uint32(inst.Nn), int(inst.Is)*2, c.Registers.FlagC(), false)
	}

	rm := c.readOperandReg(inst.Rm, pcAddr)
	shiftType := ShiftType(inst.ShiftType)
	if inst.R {
		amount := int(c.Registers.Get(inst.Rs) & 0xFF)
		if inst.Rm == 15 {
			rm = pcAddr + 12 // Rm=R15 read while Rs selects shift amount by register
		}
		return barrelShift(shiftType, rm, amount, c.Registers.FlagC(), false)
	}
	return barrelShift(shiftType, rm, int(inst.Is), c.Registers.FlagC(), true)
}

func (c *CPU) execArm_DataProcessing(inst ARMDataProcessingInstruction, pcAddr uint32) int {
	op2, shiftCarry := c.calcOp2Arm(inst, pcAddr)
	rn := c.readOperandReg(inst.Rn, pcAddr)

	var result uint32
	var carry, overflow bool
	writesResult := true

	switch inst.Opcode {
	case AND:
		result, carry = rn&op2, shiftCarry
	case EOR:
		result, carry = rn^op2, shiftCarry
	case SUB:
		result, carry, overflow = aluSub(rn, op2, true)
	case RSB:
		result, carry, overflow = aluSub(op2, rn, true)
	case ADD:
		result, carry, overflow = aluAdd(rn, op2, false)
	case ADC:
		result, carry, overflow = aluAdd(rn, op2, c.Registers.FlagC())
	case SBC:
		result, carry, overflow = aluSub(rn, op2, c.Registers.FlagC())
	case RSC:
		result, carry, overflow = aluSub(op2, rn, c.Registers.FlagC())
	case TST:
		result, carry, writesResult = rn&op2, shiftCarry, false
	case TEQ:
		result, carry, writesResult = rn^op2, shiftCarry, false
	case CMP:
		result, carry, overflow = aluSub(rn, op2, true)
		writesResult = false
	case CMN:
		result, carry, overflow = aluAdd(rn, op2, false)
		writesResult = false
	case ORR:
		result, carry = rn|op2, shiftCarry
	case MOV:
		result, carry = op2, shiftCarry
	case BIC:
		result, carry = rn&^op2, shiftCarry
	case MVN:
		result, carry = ^op2, shiftCarry
	}

	cycles := 1
	if writesResult {
		if inst.Rd == 15 {
			if inst.S {
				c.Registers.RestoreCPSRFromSPSR()
			}
			// An exception return (S set) may have restored into Thumb
			// mode; mask the low bit that state actually uses rather than
			// always assuming ARM alignment.
			if c.Registers.Thumb() {
				c.Registers.SetPCRaw(result &^ 1)
			} else {
				c.Registers.SetPCRaw(result &^ 3)
			}
			cycles = cyclesDPWritePC
		} else {
			c.Registers.Set(inst.Rd, result)
		}
	}

	if inst.S && inst.Rd != 15 {
		if inst.Opcode.isArithmetic() {
			c.Registers.SetFlagsNZCV(result, carry, overflow)
		} else {
			c.Registers.SetFlagsNZ(result)
			c.Registers.SetFlagC(carry)
		}
	}
	return cycles
}

func (c *CPU) execArm_Multiply(inst ARMMultiplyInstruction) int {
	rm := c.Registers.Get(inst.Rm)
	rs := c.Registers.Get(inst.Rs)
	result := rm * rs
	if inst.A {
		result += c.Registers.Get(inst.Rn)
	}
	c.Registers.Set(inst.Rd, result)
	if inst.S {
		c.Registers.SetFlagsNZ(result)
	}
	return cyclesMultiply
}

func (c *CPU) execArm_MultiplyLong(inst ARMMultiplyLongInstruction) int {
	rm := c.Registers.Get(inst.Rm)
	rs := c.Registers.Get(inst.Rs)

	var hi, lo uint32
	if inst.Signed {
		product := int64(int32(rm)) * int64(int32(rs))
		if inst.A {
			acc := int64(c.Registers.Get(inst.RdHi))<<32 | int64(c.Registers.Get(inst.RdLo))
			product += acc
		}
		hi, lo = uint32(uint64(product)>>32), uint32(uint64(product))
	} else {
		product := uint64(rm) * uint64(rs)
		if inst.A {
			acc := uint64(c.Registers.Get(inst.RdHi))<<32 | uint64(c.Registers.Get(inst.RdLo))
			product += acc
		}
		hi, lo = uint32(product>>32), uint32(product)
	}

	c.Registers.Set(inst.RdHi, hi)
	c.Registers.Set(inst.RdLo, lo)
	if inst.S {
		c.Registers.SetFlagN(hi&0x80000000 != 0)
		c.Registers.SetFlagZ(hi == 0 && lo == 0)
	}
	return cyclesMulLong
}

func (c *CPU) execArm_Swap(inst ARMSwapInstruction) int {
	addr := c.Registers.Get(inst.Rn)
	if inst.B {
		old := c.Bus.Read8(addr)
		c.Bus.Write8(addr, uint8(c.Registers.Get(inst.Rm)))
		c.Registers.Set(inst.Rd, uint32(old))
	} else {
		old := c.Bus.Read32(addr)
		c.Bus.Write32(addr, c.Registers.Get(inst.Rm))
		c.Registers.Set(inst.Rd, old)
	}
	return cyclesSWP
}

func (c *CPU) execArm_BX(inst ARMBranchExchangeInstruction) int {
	target := c.Registers.Get(inst.Rm)
	c.Registers.SetThumb(target&1 != 0)
	if c.Registers.Thumb() {
		c.Registers.SetPCRaw(target &^ 1)
	} else {
		c.Registers.SetPCRaw(target &^ 3)
	}
	return cyclesBX
}

func (c *CPU) execArm_PSRTransfer(inst ARMPSRTransferInstruction) int {
	if !inst.Write {
		if inst.ToCPSR {
			c.Registers.Set(inst.Rd, c.Registers.CPSR())
		} else {
			c.Registers.Set(inst.Rd, c.Registers.SPSR())
		}
		return cyclesPSR
	}

	var operand uint32
	if inst.Immediate {
		// Same rot4==0-means-no-rotation rule as data-processing immediates.
		operand, _ = barrelShift(ShiftROR, uint32(inst.Imm8), int(inst.RotImm)*2, false, false)
	} else {
		operand = c.Registers.Get(inst.Rm)
	}

	userMode := c.Registers.Mode() == ModeUser
	var mask uint32
	if inst.FieldMask&0x1 != 0 && !userMode {
		mask |= 0x000000FF // control field
	}
	if inst.FieldMask&0x2 != 0 && !userMode {
		mask |= 0x0000FF00 // extension field
	}
	if inst.FieldMask&0x4 != 0 && !userMode {
		mask |= 0x00FF0000 // status field
	}
	if inst.FieldMask&0x8 != 0 {
		mask |= 0xFF000000 // flags field, writable in User mode too
	}

	if inst.ToCPSR {
		current := c.Registers.CPSR()
		c.Registers.SetCPSR((current &^ mask) | (operand & mask))
	} else {
		current := c.Registers.SPSR()
		c.Registers.SetSPSR((current &^ mask) | (operand & mask))
	}
	return cyclesPSR
}

func (c *CPU) execArm_HalfwordTransfer(inst ARMHalfwordTransferInstruction, pcAddr uint32) int {
	base := c.readOperandReg(inst.Rn, pcAddr)
	var offset uint32
	if inst.Immediate {
		offset = uint32(inst.OffsetImm)
	} else {
		offset = c.Registers.Get(inst.Rm)
	}

	addr := base
	if inst.U {
		addr = base + offset
	} else {
		addr = base - offset
	}

	effective := base
	if inst.P {
		effective = addr
	}

	cycles := cyclesLDR
	if inst.L {
		switch inst.SH {
		case 0x1: // LDRH
			c.Registers.Set(inst.Rd, uint32(c.Bus.Read16(effective)))
		case 0x2: // LDRSB
			v := c.Bus.Read8(effective)
			c.Registers.Set(inst.Rd, uint32(int32(int8(v))))
		case 0x3: // LDRSH
			v := c.Bus.Read16(effective)
			c.Registers.Set(inst.Rd, uint32(int32(int16(v))))
		}
	} else {
		cycles = cyclesSTR
		c.Bus.Write16(effective, uint16(c.Registers.Get(inst.Rd)))
	}

	if inst.W || !inst.P {
		c.Registers.Set(inst.Rn, addr)
	}
	return cycles
}

func (c *CPU) execArm_Branch(inst ARMBranchInstruction, pcAddr uint32) int {
	target := pcAddr + 8 + uint32(int32(inst.TargetAddr))
	if inst.Link {
		c.Registers.SetLR(pcAddr + 4)
	}
	c.Registers.SetPCRaw(target)
	return cyclesBranch
}

func (c *CPU) execArm_LoadStore(inst ARMLoadStoreInstruction, pcAddr uint32) int {
	base := c.readOperandReg(inst.Rn, pcAddr)

	var offset uint32
	if inst.RegOffset {
		rm := c.Registers.Get(inst.Rm)
		offset, _ = barrelShift(ShiftType(inst.ShiftType), rm, int(inst.ShiftAmount), c.Registers.FlagC(), true)
	} else {
		offset = inst.Offset
	}

	var addr uint32
	if inst.U {
		addr = base + offset
	} else {
		addr = base - offset
	}

	effective := base
	if inst.P {
		effective = addr
	}

	cycles := cyclesSTR
	if inst.L {
		var value uint32
		if inst.B {
			value = uint32(c.Bus.Read8(effective))
		} else {
			value = c.loadWordRotated(effective)
		}
		if inst.Rd == 15 {
			c.Registers.SetPCRaw(value &^ 3)
			cycles = cyclesLDRToPC
		} else {
			c.Registers.Set(inst.Rd, value)
			cycles = cyclesLDR
		}
	} else {
		value := c.Registers.Get(inst.Rd)
		if inst.Rd == 15 {
			value = pcAddr + 12
		}
		if inst.B {
			c.Bus.Write8(effective, uint8(value))
		} else {
			c.Bus.Write32(effective, value)
		}
	}

	if inst.W || !inst.P {
		if !(inst.L && inst.Rd == inst.Rn) {
			c.Registers.Set(inst.Rn, addr)
		}
	}
	return cycles
}

func (c *CPU) execArm_BlockDataTransfer(inst ARMBlockDataTransferInstruction, pcAddr uint32) int {
	base := c.Registers.Get(inst.Rn)

	count := 0
	for i := 0; i < 16; i++ {
		if inst.RegisterList&(1<<uint(i)) != 0 {
			count++
		}
	}
	if count == 0 {
		count = 16 // empty-list quirk: transfers R15 only, base moves by 0x40
	}

	var start uint32
	var finalBase uint32
	if inst.U {
		start = base
		if inst.P {
			start += 4
		}
		finalBase = base + uint32(count)*4
	} else {
		start = base - uint32(count)*4
		if !inst.P {
			start += 4
		}
		finalBase = base - uint32(count)*4
	}

	addr := start
	extraCycles := 0

	if inst.RegisterList == 0 {
		if inst.L {
			val := c.Bus.Read32(addr)
			if inst.S {
				c.Registers.RestoreCPSRFromSPSR()
			}
			if c.Registers.Thumb() {
				c.Registers.SetPCRaw(val &^ 1)
			} else {
				c.Registers.SetPCRaw(val &^ 3)
			}
		} else {
			c.Bus.Write32(addr, pcAddr+12)
		}
	} else {
		for i := 0; i < 16; i++ {
			if inst.RegisterList&(1<<uint(i)) == 0 {
				continue
			}
			reg := uint8(i)
			if inst.L {
				val := c.Bus.Read32(addr)
				if reg == 15 {
					if inst.S {
						c.Registers.RestoreCPSRFromSPSR()
					}
					if c.Registers.Thumb() {
						c.Registers.SetPCRaw(val &^ 1)
					} else {
						c.Registers.SetPCRaw(val &^ 3)
					}
					extraCycles = cyclesBDTLoadPC
				} else {
					c.Registers.Set(reg, val)
				}
			} else {
				val := c.Registers.Get(reg)
				if reg == 15 {
					val = pcAddr + 12
				}
				c.Bus.Write32(addr, val)
			}
			addr += 4
		}
	}

	if inst.W {
		c.Registers.Set(inst.Rn, finalBase)
	}

	baseCycles := 1 + count/2
	return baseCycles + extraCycles
}
