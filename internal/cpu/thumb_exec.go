package cpu

// stepThumb fetches, decodes and executes one 16-bit Thumb instruction.
func (c *CPU) stepThumb() int {
	pc := c.Registers.PC()
	raw := c.Bus.Read16(pc)
	c.Registers.SetPCRaw(pc + 2)
	return c.executeThumb(raw, pc)
}

func (c *CPU) executeThumb(raw uint16, pcAddr uint32) int {
	switch classifyThumb(raw) {
	case ThumbMoveShifted:
		return c.execThumb_MoveShifted(raw)
	case ThumbAddSub:
		return c.execThumb_AddSub(raw)
	case ThumbImmediateOp:
		return c.execThumb_ImmediateOp(raw)
	case ThumbALU:
		return c.execThumb_ALU(raw)
	case ThumbHiRegBX:
		return c.execThumb_HiRegBX(raw, pcAddr)
	case ThumbPCRelLoad:
		return c.execThumb_PCRelLoad(raw, pcAddr)
	case ThumbLoadStoreReg:
		return c.execThumb_LoadStoreReg(raw)
	case ThumbLoadStoreSext:
		return c.execThumb_LoadStoreSext(raw)
	case ThumbLoadStoreImm:
		return c.execThumb_LoadStoreImm(raw)
	case ThumbLoadStoreHalf:
		return c.execThumb_LoadStoreHalf(raw)
	case ThumbSPRelLoadStore:
		return c.execThumb_SPRelLoadStore(raw)
	case ThumbLoadAddress:
		return c.execThumb_LoadAddress(raw, pcAddr)
	case ThumbAddSP:
		return c.execThumb_AddSP(raw)
	case ThumbPushPop:
		return c.execThumb_PushPop(raw)
	case ThumbMultipleLoadStore:
		return c.execThumb_MultipleLoadStore(raw)
	case ThumbCondBranch:
		return c.execThumb_CondBranch(raw, pcAddr)
	case ThumbSWI:
		c.TriggerSWI()
		return cyclesSWI
	case ThumbUncondBranch:
		return c.execThumb_UncondBranch(raw, pcAddr)
	case ThumbLongBranchLink:
		return c.execThumb_LongBranchLink(raw, pcAddr)
	default:
		c.TriggerUndefined()
		return cyclesSWI
	}
}

// Format 1: LSL/LSR/ASR Rd, Rs, #imm5
func (c *CPU) execThumb_MoveShifted(raw uint16) int {
	op := ShiftType((raw >> 11) & 0x3)
	amount := int((raw >> 6) & 0x1F)
	rs := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)

	value := c.Registers.Get(rs)
	result, carry := barrelShift(op, value, amount, c.Registers.FlagC(), true)
	c.Registers.Set(rd, result)
	c.Registers.SetFlagsNZ(result)
	c.Registers.SetFlagC(carry)
	return 1
}

// Format 2: ADD/SUB Rd, Rs, Rn|#imm3
func (c *CPU) execThumb_AddSub(raw uint16) int {
	immediate := raw&0x0400 != 0
	subtract := raw&0x0200 != 0
	rnOrImm := uint8((raw >> 6) & 0x7)
	rs := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)

	var operand uint32
	if immediate {
		operand = uint32(rnOrImm)
	} else {
		operand = c.Registers.Get(rnOrImm)
	}

	rsVal := c.Registers.Get(rs)
	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = aluSub(rsVal, operand, true)
	} else {
		result, carry, overflow = aluAdd(rsVal, operand, false)
	}
	c.Registers.Set(rd, result)
	c.Registers.SetFlagsNZCV(result, carry, overflow)
	return 1
}

// Format 3: MOV/CMP/ADD/SUB Rd, #imm8
func (c *CPU) execThumb_ImmediateOp(raw uint16) int {
	op := (raw >> 11) & 0x3
	rd := uint8((raw >> 8) & 0x7)
	imm := uint32(raw & 0xFF)
	rdVal := c.Registers.Get(rd)

	switch op {
	case 0: // MOV
		c.Registers.Set(rd, imm)
		c.Registers.SetFlagsNZ(imm)
	case 1: // CMP
		result, carry, overflow := aluSub(rdVal, imm, true)
		c.Registers.SetFlagsNZCV(result, carry, overflow)
	case 2: // ADD
		result, carry, overflow := aluAdd(rdVal, imm, false)
		c.Registers.Set(rd, result)
		c.Registers.SetFlagsNZCV(result, carry, overflow)
	case 3: // SUB
		result, carry, overflow := aluSub(rdVal, imm, true)
		c.Registers.Set(rd, result)
		c.Registers.SetFlagsNZCV(result, carry, overflow)
	}
	return 1
}

// Format 4: ALU operations Rd, Rs
func (c *CPU) execThumb_ALU(raw uint16) int {
	op := (raw >> 6) & 0xF
	rs := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)
	rdVal := c.Registers.Get(rd)
	rsVal := c.Registers.Get(rs)

	var result uint32
	var carry, overflow bool
	writes := true
	flagsNZCV := false

	switch op {
	case 0x0: // AND
		result, carry = rdVal&rsVal, c.Registers.FlagC()
	case 0x1: // EOR
		result, carry = rdVal^rsVal, c.Registers.FlagC()
	case 0x2: // LSL
		result, carry = barrelShift(ShiftLSL, rdVal, int(rsVal&0xFF), c.Registers.FlagC(), false)
	case 0x3: // LSR
		result, carry = barrelShift(ShiftLSR, rdVal, int(rsVal&0xFF), c.Registers.FlagC(), false)
	case 0x4: // ASR
		result, carry = barrelShift(ShiftASR, rdVal, int(rsVal&0xFF), c.Registers.FlagC(), false)
	case 0x5: // ADC
		result, carry, overflow = aluAdd(rdVal, rsVal, c.Registers.FlagC())
		flagsNZCV = true
	case 0x6: // SBC
		result, carry, overflow = aluSub(rdVal, rsVal, c.Registers.FlagC())
		flagsNZCV = true
	case 0x7: // ROR
		result, carry = barrelShift(ShiftROR, rdVal, int(rsVal&0xFF), c.Registers.FlagC(), false)
	case 0x8: // TST
		result, carry, writes = rdVal&rsVal, c.Registers.FlagC(), false
	case 0x9: // NEG
		result, carry, overflow = aluSub(0, rsVal, true)
		flagsNZCV = true
	case 0xA: // CMP
		result, carry, overflow = aluSub(rdVal, rsVal, true)
		flagsNZCV, writes = true, false
	case 0xB: // CMN
		result, carry, overflow = aluAdd(rdVal, rsVal, false)
		flagsNZCV, writes = true, false
	case 0xC: // ORR
		result, carry = rdVal|rsVal, c.Registers.FlagC()
	case 0xD: // MUL
		result, carry = rdVal*rsVal, c.Registers.FlagC()
	case 0xE: // BIC
		result, carry = rdVal&^rsVal, c.Registers.FlagC()
	case 0xF: // MVN
		result, carry = ^rsVal, c.Registers.FlagC()
	}

	if writes {
		c.Registers.Set(rd, result)
	}
	if flagsNZCV {
		c.Registers.SetFlagsNZCV(result, carry, overflow)
	} else {
		c.Registers.SetFlagsNZ(result)
		c.Registers.SetFlagC(carry)
	}
	if op == 0xD {
		return 4 // MUL: worst-case early-termination cycle count, approximated
	}
	return 1
}

func (c *CPU) readOperandRegThumb(n uint8, pcAddr uint32) uint32 {
	if n == 15 {
		return pcAddr + 4
	}
	return c.Registers.Get(n)
}

// Format 5: Hi register operations and branch/exchange
func (c *CPU) execThumb_HiRegBX(raw uint16, pcAddr uint32) int {
	opFlags := (raw >> 8) & 0x3
	h1 := raw&0x0080 != 0
	h2 := raw&0x0040 != 0
	rs := uint8((raw>>3)&0x7) | boolReg(h2)
	rd := uint8(raw&0x7) | boolReg(h1)

	rsVal := c.readOperandRegThumb(rs, pcAddr)
	switch opFlags {
	case 0: // ADD
		result := c.readOperandRegThumb(rd, pcAddr) + rsVal
		if rd == 15 {
			c.Registers.SetPCRaw(result &^ 1)
			return cyclesBranch
		}
		c.Registers.Set(rd, result)
	case 1: // CMP
		rdVal := c.readOperandRegThumb(rd, pcAddr)
		result, carry, overflow := aluSub(rdVal, rsVal, true)
		c.Registers.SetFlagsNZCV(result, carry, overflow)
	case 2: // MOV
		if rd == 15 {
			c.Registers.SetPCRaw(rsVal &^ 1)
			return cyclesBranch
		}
		c.Registers.Set(rd, rsVal)
	case 3: // BX (and BLX on later cores, not present on ARM7TDMI/GBA)
		c.Registers.SetThumb(rsVal&1 != 0)
		if c.Registers.Thumb() {
			c.Registers.SetPCRaw(rsVal &^ 1)
		} else {
			c.Registers.SetPCRaw(rsVal &^ 3)
		}
		return cyclesBX
	}
	return 1
}

func boolReg(b bool) uint8 {
	if b {
		return 8
	}
	return 0
}

// Format 6: PC-relative load
func (c *CPU) execThumb_PCRelLoad(raw uint16, pcAddr uint32) int {
	rd := uint8((raw >> 8) & 0x7)
	imm := uint32(raw&0xFF) * 4
	base := (pcAddr + 4) &^ 3
	c.Registers.Set(rd, c.Bus.Read32(base+imm))
	return cyclesLDR
}

// Format 7: load/store with register offset
func (c *CPU) execThumb_LoadStoreReg(raw uint16) int {
	load := raw&0x0800 != 0
	byteXfer := raw&0x0400 != 0
	ro := uint8((raw >> 6) & 0x7)
	rb := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)
	addr := c.Registers.Get(rb) + c.Registers.Get(ro)

	if load {
		if byteXfer {
			c.Registers.Set(rd, uint32(c.Bus.Read8(addr)))
		} else {
			c.Registers.Set(rd, c.loadWordRotated(addr))
		}
		return cyclesLDR
	}
	if byteXfer {
		c.Bus.Write8(addr, uint8(c.Registers.Get(rd)))
	} else {
		c.Bus.Write32(addr, c.Registers.Get(rd))
	}
	return cyclesSTR
}

// Format 8: load/store sign-extended byte/halfword
func (c *CPU) execThumb_LoadStoreSext(raw uint16) int {
	hFlag := raw&0x0800 != 0
	signFlag := raw&0x0400 != 0
	ro := uint8((raw >> 6) & 0x7)
	rb := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)
	addr := c.Registers.Get(rb) + c.Registers.Get(ro)

	switch {
	case !signFlag && !hFlag: // STRH
		c.Bus.Write16(addr, uint16(c.Registers.Get(rd)))
		return cyclesSTR
	case !signFlag && hFlag: // LDRH
		c.Registers.Set(rd, uint32(c.Bus.Read16(addr)))
	case signFlag && !hFlag: // LDSB
		c.Registers.Set(rd, uint32(int32(int8(c.Bus.Read8(addr)))))
	default: // LDSH
		c.Registers.Set(rd, uint32(int32(int16(c.Bus.Read16(addr)))))
	}
	return cyclesLDR
}

// Format 9: load/store with immediate offset
func (c *CPU) execThumb_LoadStoreImm(raw uint16) int {
	byteXfer := raw&0x1000 != 0
	load := raw&0x0800 != 0
	imm := uint32((raw >> 6) & 0x1F)
	rb := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)

	if !byteXfer {
		imm *= 4
	}
	addr := c.Registers.Get(rb) + imm

	if load {
		if byteXfer {
			c.Registers.Set(rd, uint32(c.Bus.Read8(addr)))
		} else {
			c.Registers.Set(rd, c.loadWordRotated(addr))
		}
		return cyclesLDR
	}
	if byteXfer {
		c.Bus.Write8(addr, uint8(c.Registers.Get(rd)))
	} else {
		c.Bus.Write32(addr, c.Registers.Get(rd))
	}
	return cyclesSTR
}

// Format 10: load/store halfword with immediate offset
func (c *CPU) execThumb_LoadStoreHalf(raw uint16) int {
	load := raw&0x0800 != 0
	imm := uint32((raw>>6)&0x1F) * 2
	rb := uint8((raw >> 3) & 0x7)
	rd := uint8(raw & 0x7)
	addr := c.Registers.Get(rb) + imm

	if load {
		c.Registers.Set(rd, uint32(c.Bus.Read16(addr)))
		return cyclesLDR
	}
	c.Bus.Write16(addr, uint16(c.Registers.Get(rd)))
	return cyclesSTR
}

// Format 11: SP-relative load/store
func (c *CPU) execThumb_SPRelLoadStore(raw uint16) int {
	load := raw&0x0800 != 0
	rd := uint8((raw >> 8) & 0x7)
	imm := uint32(raw&0xFF) * 4
	addr := c.Registers.SP() + imm

	if load {
		c.Registers.Set(rd, c.loadWordRotated(addr))
		return cyclesLDR
	}
	c.Bus.Write32(addr, c.Registers.Get(rd))
	return cyclesSTR
}

// Format 12: load address (ADD Rd, PC|SP, #imm)
func (c *CPU) execThumb_LoadAddress(raw uint16, pcAddr uint32) int {
	useSP := raw&0x0800 != 0
	rd := uint8((raw >> 8) & 0x7)
	imm := uint32(raw&0xFF) * 4

	var base uint32
	if useSP {
		base = c.Registers.SP()
	} else {
		base = (pcAddr + 4) &^ 3
	}
	c.Registers.Set(rd, base+imm)
	return 1
}

// Format 13: ADD/SUB SP, #imm7*4
func (c *CPU) execThumb_AddSP(raw uint16) int {
	negative := raw&0x80 != 0
	imm := uint32(raw&0x7F) * 4
	if negative {
		c.Registers.SetSP(c.Registers.SP() - imm)
	} else {
		c.Registers.SetSP(c.Registers.SP() + imm)
	}
	return 1
}

// Format 14: PUSH/POP register list (with LR/PC)
func (c *CPU) execThumb_PushPop(raw uint16) int {
	load := raw&0x0800 != 0
	withExtra := raw&0x0100 != 0 // PC for POP, LR for PUSH
	list := uint8(raw & 0xFF)

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
		}
	}
	if withExtra {
		count++
	}

	if load {
		sp := c.Registers.SP()
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) != 0 {
				c.Registers.Set(uint8(i), c.Bus.Read32(sp))
				sp += 4
			}
		}
		if withExtra {
			c.Registers.SetPCRaw(c.Bus.Read32(sp) &^ 1)
			sp += 4
		}
		c.Registers.SetSP(sp)
	} else {
		sp := c.Registers.SP() - uint32(count)*4
		c.Registers.SetSP(sp)
		addr := sp
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) != 0 {
				c.Bus.Write32(addr, c.Registers.Get(uint8(i)))
				addr += 4
			}
		}
		if withExtra {
			c.Bus.Write32(addr, c.Registers.LR())
		}
	}
	cycles := 1 + count/2
	if load && withExtra {
		cycles += cyclesBDTLoadPC
	}
	return cycles
}

// Format 15: multiple load/store (LDMIA/STMIA!)
func (c *CPU) execThumb_MultipleLoadStore(raw uint16) int {
	load := raw&0x0800 != 0
	rb := uint8((raw >> 8) & 0x7)
	list := uint8(raw & 0xFF)
	addr := c.Registers.Get(rb)

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			count++
			if load {
				c.Registers.Set(uint8(i), c.Bus.Read32(addr))
			} else {
				c.Bus.Write32(addr, c.Registers.Get(uint8(i)))
			}
			addr += 4
		}
	}
	c.Registers.Set(rb, addr)
	return 1 + count/2
}

// Format 16: conditional branch
func (c *CPU) execThumb_CondBranch(raw uint16, pcAddr uint32) int {
	cond := uint8((raw >> 8) & 0xF)
	offset := int32(int8(raw & 0xFF)) * 2
	if !c.Registers.CheckCondition(cond) {
		return 1
	}
	c.Registers.SetPCRaw(uint32(int32(pcAddr+4) + offset))
	return cyclesBranch
}

// Format 18: unconditional branch
func (c *CPU) execThumb_UncondBranch(raw uint16, pcAddr uint32) int {
	offset := int32(raw&0x07FF) << 1
	if raw&0x0400 != 0 {
		offset |= ^int32(0xFFF) // sign-extend 12-bit value
	}
	c.Registers.SetPCRaw(uint32(int32(pcAddr+4) + offset))
	return cyclesBranch
}

// Format 19: long branch with link, two 16-bit instructions (H=0 then H=1).
func (c *CPU) execThumb_LongBranchLink(raw uint16, pcAddr uint32) int {
	low := raw&0x0800 != 0
	offset11 := uint32(raw & 0x07FF)

	if !low {
		signed := int32(offset11 << 21) >> 9 // sign-extend 11 bits shifted into bits 31..21, then >>9 gives <<12
		c.Registers.SetLR(uint32(int32(pcAddr+4) + signed))
		return 1
	}

	next := c.Registers.PC()
	target := c.Registers.LR() + (offset11 << 1)
	c.Registers.SetLR(next | 1)
	c.Registers.SetPCRaw(target)
	return cyclesBranch
}
