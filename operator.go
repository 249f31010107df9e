// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Operator describe the potential operations available on an Apply. Only
// operators OPunion and OPintersection can be used in ApplyN.
type Operator int

const (
	OPunion        Operator = iota // set union
	OPintersection                 // set intersection
	OPdiamond                      // symmetric difference
	OPminus                        // set difference
	OPinclusion                    // inclusion test, see Included
	opcount
)

var opnames = [opcount]string{
	OPunion:        "union",
	OPintersection: "intersection",
	OPdiamond:      "diamond",
	OPminus:        "minus",
	OPinclusion:    "inclusion",
}

func (op Operator) String() string {
	if op < 0 || op >= opcount {
		return "unknown"
	}
	return opnames[op]
}

// opres gives, for each operator, whether an arc is kept in the result
// depending on whether it exists in the first and second operands, and on
// whether it enters the last layer: opres[op][a1][a2][final].
var opres = [opcount][2][2][2]bool{
	OPunion:        {{{false, false}, {true, true}}, {{true, true}, {true, true}}},
	OPintersection: {{{false, false}, {false, false}}, {{false, false}, {true, true}}},
	OPdiamond:      {{{false, false}, {true, true}}, {{true, true}, {true, false}}},
	OPminus:        {{{false, false}, {false, false}}, {{true, true}, {true, false}}},
	OPinclusion:    {{{false, false}, {false, false}}, {{false, false}, {true, true}}},
}

// eval returns the value of op for the presence of an arc in each operand.
func (op Operator) eval(a1, a2, final bool) bool {
	return opres[op][b2i(a1)][b2i(a2)][b2i(final)]
}

// evalN is the n-ary version of eval: union is true if any operand has the
// arc, intersection if all of them do.
func (op Operator) evalN(present []bool) bool {
	switch op {
	case OPunion:
		for _, p := range present {
			if p {
				return true
			}
		}
		return false
	case OPintersection:
		for _, p := range present {
			if !p {
				return false
			}
		}
		return true
	}
	return false
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
