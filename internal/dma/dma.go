// Package dma implements the GBA's four DMA channels. DMA has bus
// priority over the CPU (spec §5 item 1): the system tick loop steps the
// controller before the CPU each iteration, and an active transfer reports
// back how many cycles it consumed so the loop knows the CPU didn't get
// to run those cycles.
package dma

import "github.com/ljsoft/gba7/internal/interfaces"

const numChannels = 4

type channel struct {
	srcAddr, dstAddr uint32
	count            uint16
	control          uint16 // bit5-6 dst adj, bit7-8 src adj, bit9 repeat, bit10 32-bit, bit12-13 start timing, bit14 irq, bit15 enable

	active      bool
	remaining   uint16
	curSrc      uint32
	curDst      uint32
	unitBytes   uint32
}

func (ch *channel) enabled() bool { return ch.control&0x8000 != 0 }
func (ch *channel) wordSize() bool { return ch.control&0x0400 != 0 }

// Controller owns the four DMA channels and the bus used to perform
// transfers. It is stepped ahead of the CPU every system tick.
type Controller struct {
	channels [numChannels]channel
	bus      interfaces.MemoryBus
}

func NewController(bus interfaces.MemoryBus) *Controller {
	c := &Controller{bus: bus}
	c.Reset()
	return c
}

func (c *Controller) Reset() {
	c.channels = [numChannels]channel{}
}

func (c *Controller) WriteSrc(i int, addr uint32)  { c.channels[i].srcAddr = addr }
func (c *Controller) WriteDst(i int, addr uint32)  { c.channels[i].dstAddr = addr }
func (c *Controller) WriteCount(i int, count uint16) { c.channels[i].count = count }

func (c *Controller) WriteControl(i int, value uint16) {
	ch := &c.channels[i]
	wasEnabled := ch.enabled()
	ch.control = value
	if !wasEnabled && ch.enabled() {
		ch.active = true
		ch.remaining = ch.count
		ch.curSrc = ch.srcAddr
		ch.curDst = ch.dstAddr
		if ch.wordSize() {
			ch.unitBytes = 4
		} else {
			ch.unitBytes = 2
		}
	}
}

// Step performs transfer work for active, immediate-start channels and
// returns how many cycles it consumed — 2 cycles per unit transferred,
// a crude but monotonic approximation of real wait-state costs.
func (c *Controller) Step(cycles int) int {
	spent := 0
	for i := range c.channels {
		ch := &c.channels[i]
		if !ch.active {
			continue
		}
		// Only "immediate" start timing (bits 12-13 == 0) runs outside of
		// explicit peripheral requests; other timings run only when
		// TriggerVBlank/TriggerHBlank is called.
		if (ch.control>>12)&0x3 != 0 {
			continue
		}
		spent += c.runChannel(ch)
	}
	return spent
}

// TriggerVBlank and TriggerHBlank start any channel configured for those
// start-timing values (2 and 1 respectively). The system loop calls
// TriggerVBlank once the PPU reports a finished frame; it never calls
// TriggerHBlank.
func (c *Controller) TriggerVBlank() { c.triggerTiming(2) }
func (c *Controller) TriggerHBlank() { c.triggerTiming(1) }

func (c *Controller) triggerTiming(timing uint16) {
	for i := range c.channels {
		ch := &c.channels[i]
		if ch.active && (ch.control>>12)&0x3 == timing {
			c.runChannel(ch)
		}
	}
}

func (c *Controller) runChannel(ch *channel) int {
	destAdj := (ch.control >> 5) & 0x3
	srcAdj := (ch.control >> 7) & 0x3

	for ch.remaining > 0 {
		if ch.unitBytes == 4 {
			c.bus.Write32(ch.curDst, c.bus.Read32(ch.curSrc))
		} else {
			c.bus.Write16(ch.curDst, c.bus.Read16(ch.curSrc))
		}
		ch.curDst = adjust(ch.curDst, destAdj, ch.unitBytes)
		ch.curSrc = adjust(ch.curSrc, srcAdj, ch.unitBytes)
		ch.remaining--
	}

	spent := int(ch.count) * 2
	if ch.control&0x0200 != 0 { // repeat
		ch.remaining = ch.count
		if destAdj == 3 { // increment+reload
			ch.curDst = ch.dstAddr
		}
	} else {
		ch.active = false
		ch.control &^= 0x8000
	}
	return spent
}

func adjust(addr uint32, mode uint16, unit uint32) uint32 {
	switch mode {
	case 0, 3: // increment, or increment+reload (reload handled by caller on repeat)
		return addr + unit
	case 1: // decrement
		return addr - unit
	default: // fixed
		return addr
	}
}
