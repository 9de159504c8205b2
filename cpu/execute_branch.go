package cpu

import "github.com/armsim/armv4/decode"

// executeBranch executes one B/BL instruction: the target is the
// sign-extended imm24<<2 offset added to the PC view already held in R[15]
// (which this CPU keeps as the "+8" value, so no extra adjustment is needed
// here); BL additionally sets LR to PC-4, the address of the instruction
// after the branch. Both forms always flush the pipeline.
func (c *CPU) executeBranch(f *decode.BranchFields) (bool, error) {
	offset := signExtend(f.Imm24<<2, 26)
	target := c.R[PC] + offset

	if f.Op == decode.OpBL {
		c.SetGPR(LR, c.R[PC]-4)
	}

	c.R[PC] = target
	return true, nil
}
