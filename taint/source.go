package taint

import "github.com/mokita-j/tainted-storage/ir"

// isGasleftCall reports whether call invokes gasleft().
func isGasleftCall(call *ir.SolidityCall) bool {
	return call.Function != nil && call.Function.Equal(ir.Gasleft)
}

// isBalanceCall reports whether call invokes balance(address).
func isBalanceCall(call *ir.SolidityCall) bool {
	return call.Function != nil && call.Function.Equal(ir.Balance)
}

// gasComposedSourceRead scans an operation's reads for a gas-related
// composed builtin (tx.gasprice, block.basefee, block.blobbasefee,
// block.gaslimit) and returns it, or nil if none is present. Spec §4.4
// step 2 requires this scan to run before kind-dispatch, for every
// operation, so that downstream assignment/binary/etc. propagation sees
// the composed variable already marked tainted.
func gasComposedSourceRead(reads []ir.Variable) *ir.SolidityVariableComposed {
	for _, r := range reads {
		c, ok := r.(*ir.SolidityVariableComposed)
		if !ok {
			continue
		}
		if _, isGas := ir.GasComposedSources[c.Name]; isGas {
			return c
		}
	}
	return nil
}

// applySourceRules implements spec §4.3: recognise ir as a taint source
// and mark its lvalue. Returns true if call was handled as a source call
// (gasleft, sender balance, hash-and-encode) and kind-dispatch in the
// propagator should move on to the next operation; false sends the call
// to the generic fallback.
func applySourceRules(c *Context, call *ir.SolidityCall) bool {
	if isGasleftCall(call) {
		if call.LV != nil {
			c.Mark(call.LV)
		}
		return true
	}

	if isBalanceCall(call) {
		if len(call.Arguments) > 0 && c.IsMsgSender(call.Arguments[0]) {
			if call.LV != nil {
				c.Mark(call.LV)
			}
			return true
		}
		// A balance() call on some other address is not a source for
		// propagation purposes (spec §4.3); fall through so it is still
		// subject to generic fallback propagation, and Reason Inference
		// may separately attribute "address.balance".
		return false
	}

	if call.Function != nil && ir.HashAndEncodeFunctions[call.Function.Name] {
		if call.LV != nil {
			c.MarkIfAnyTainted(call.LV, call.Arguments)
		}
		return true
	}

	return false
}
