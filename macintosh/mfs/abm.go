package mfs

import "github.com/pkg/errors"

// The allocation block map holds one 12-bit entry per allocation
// block, packed two entries per 3-byte triplet. Allocation blocks are
// numbered from 2, so block n maps to entry n-2. Entry values:
//
//	0x000        free
//	0x001        last block of a fork
//	0x002..0xFEF next block number in the chain
//	0xFFF        owned by the file directory (preserved, never created)
const (
	blockFree     = 0x000
	blockChainEnd = 0x001
	blockDirUse   = 0xFFF

	// Block numbers below this are not allocation blocks.
	firstAllocBlock = 2
)

// mapEntry reads the 12-bit value at the given entry index.
func mapEntry(m []byte, index int) uint16 {
	b := m[index/2*3:]
	if index%2 == 0 {
		return uint16(b[0])<<4 | uint16(b[1])>>4
	}
	return uint16(b[1]&0x0F)<<8 | uint16(b[2])
}

// putMapEntry writes a 12-bit value at the given entry index,
// preserving the neighbouring entry's nibble in the shared byte.
func putMapEntry(m []byte, index int, value uint16) error {
	if value > 0xFFF {
		return errors.Wrapf(ErrInvalidArgument, "block map value 0x%X exceeds 12 bits", value)
	}
	b := m[index/2*3:]
	if index%2 == 0 {
		b[0] = byte(value >> 4)
		b[1] = b[1]&0x0F | byte(value&0x0F)<<4
	} else {
		b[1] = b[1]&0xF0 | byte(value>>8)
		b[2] = byte(value)
	}
	return nil
}

// unpackBlockMap expands count packed entries into a slice.
func unpackBlockMap(src []byte, count int) []uint16 {
	entries := make([]uint16, count)
	for i := range entries {
		entries[i] = mapEntry(src, i)
	}
	return entries
}

// packBlockMap packs all entries into dst.
func packBlockMap(entries []uint16, dst []byte) error {
	for i, v := range entries {
		if err := putMapEntry(dst, i, v); err != nil {
			return err
		}
	}
	return nil
}

// blockMapEntry returns the map value for an allocation block number.
func (v *Volume) blockMapEntry(block uint16) (uint16, error) {
	if block < firstAllocBlock || block > v.Info.AllocBlocks+1 {
		return 0, errors.Wrapf(ErrCorrupted, "block %d outside allocation map", block)
	}
	return v.abm[block-firstAllocBlock], nil
}

// allocateChain claims n free blocks in ascending order and links them
// into a chain. A zero-length request allocates nothing and returns a
// zero start block.
func (v *Volume) allocateChain(n int) (uint16, []uint16, error) {
	if n == 0 {
		return 0, nil, nil
	}
	if n > int(v.Info.FreeBlocks) {
		return 0, nil, errors.Wrapf(ErrDiskFull, "%d blocks needed, %d free", n, v.Info.FreeBlocks)
	}

	blocks := make([]uint16, 0, n)
	for i, e := range v.abm {
		if e == blockFree {
			blocks = append(blocks, uint16(i)+firstAllocBlock)
			if len(blocks) == n {
				break
			}
		}
	}
	if len(blocks) < n {
		// FreeBlocks disagrees with the map itself.
		return 0, nil, errors.Wrapf(ErrDiskFull, "%d blocks needed, %d free in map", n, len(blocks))
	}

	for i, block := range blocks {
		next := uint16(blockChainEnd)
		if i < len(blocks)-1 {
			next = blocks[i+1]
		}
		v.abm[block-firstAllocBlock] = next
	}
	v.Info.FreeBlocks -= uint16(n)

	return blocks[0], blocks, nil
}

// freeChain releases every block in the chain starting at start and
// returns the number freed. Damage in the chain stops the walk with a
// diagnostic instead of an error, so that deleting a file on a
// corrupted volume still releases what it can.
func (v *Volume) freeChain(start uint16) int {
	if start == 0 {
		return 0
	}

	freed := 0
	seen := make(map[uint16]bool)
	block := start

	for {
		if block < firstAllocBlock || block > v.Info.AllocBlocks+1 {
			v.diagnose("free", block, "block outside allocation map")
			break
		}
		if seen[block] {
			v.diagnose("free", block, "cycle in allocation chain")
			break
		}
		seen[block] = true

		next := v.abm[block-firstAllocBlock]
		if next == blockFree {
			v.diagnose("free", block, "chain passes through a free block")
			break
		}
		if next == blockDirUse {
			v.diagnose("free", block, "chain passes through a directory block")
			break
		}

		v.abm[block-firstAllocBlock] = blockFree
		v.Info.FreeBlocks++
		freed++

		if next == blockChainEnd {
			break
		}
		block = next
	}

	return freed
}

func (v *Volume) diagnose(op string, block uint16, message string) {
	v.Diagnostics = append(v.Diagnostics, Diagnostic{Op: op, Block: block, Message: message})
}
