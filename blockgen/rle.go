package blockgen

// rleOp is one emitted code-length symbol: a literal length 0..15, or one of
// the repeat symbols 16, 17 and 18 with its extra-bit payload.
type rleOp struct {
	sym   int
	extra int
	bits  int
}

func (op rleOp) count() int {
	switch op.sym {
	case 16, 17:
		return 3 + op.extra
	case 18:
		return 11 + op.extra
	}
	return 1
}

// runLength encodes the combined code-length vector with the RLE symbols of
// RFC 1951 section 3.2.7. Zero runs prefer repeat-18, then repeat-17, and
// fall back to literal zeros for residuals shorter than three. Non-zero runs
// emit one literal followed by repeat-16 chunks, stealing from the preceding
// chunk when the remainder would drop below three.
func runLength(lengths []int) []rleOp {
	var ops []rleOp
	for i := 0; i < len(lengths); {
		v := lengths[i]
		j := i
		for j < len(lengths) && lengths[j] == v {
			j++
		}
		run := j - i
		i = j

		if v == 0 {
			for run > 0 {
				switch {
				case run >= 11:
					take := run
					if take > 138 {
						take = 138
					}
					ops = append(ops, rleOp{sym: 18, extra: take - 11, bits: 7})
					run -= take
				case run >= 3:
					ops = append(ops, rleOp{sym: 17, extra: run - 3, bits: 3})
					run = 0
				default:
					for ; run > 0; run-- {
						ops = append(ops, rleOp{sym: 0})
					}
				}
			}
			continue
		}

		ops = append(ops, rleOp{sym: v})
		run--
		for run > 0 {
			if run < 3 {
				for ; run > 0; run-- {
					ops = append(ops, rleOp{sym: v})
				}
				break
			}
			take := run
			if take > 6 {
				take = 6
			}
			if rem := run - take; rem > 0 && rem < 3 {
				take = run - 3
			}
			ops = append(ops, rleOp{sym: 16, extra: take - 3, bits: 2})
			run -= take
		}
	}
	return ops
}
