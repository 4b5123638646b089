package graphics

import "fmt"

// Antialias selects the antialiasing mode used when rasterizing shapes.
// Values match cairo_antialias_t.
type Antialias int

const (
	AntialiasDefault Antialias = iota
	AntialiasNone
	AntialiasGray
	AntialiasSubpixel
	AntialiasFast
	AntialiasGood
	AntialiasBest
)

var antialiasNames = []string{"DEFAULT", "NONE", "GRAY", "SUBPIXEL", "FAST", "GOOD", "BEST"}

// String returns the constant name.
func (a Antialias) String() string { return enumName(antialiasNames, int(a)) }

// Valid reports whether a is a known mode.
func (a Antialias) Valid() bool { return int(a) >= 0 && int(a) < len(antialiasNames) }

// aliased reports whether coverage should be thresholded.
func (a Antialias) aliased() bool {
	return a == AntialiasNone || a == AntialiasFast
}

// FillRule determines which regions of a path are inside.
type FillRule int

const (
	// FillRuleWinding fills points with a non-zero winding number.
	FillRuleWinding FillRule = iota
	// FillRuleEvenOdd fills points crossed an odd number of times.
	FillRuleEvenOdd
)

var fillRuleNames = []string{"WINDING", "EVEN_ODD"}

func (f FillRule) String() string { return enumName(fillRuleNames, int(f)) }

// Valid reports whether f is a known rule.
func (f FillRule) Valid() bool { return int(f) >= 0 && int(f) < len(fillRuleNames) }

// LineCap is the shape drawn at the ends of open subpaths.
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

var lineCapNames = []string{"BUTT", "ROUND", "SQUARE"}

func (c LineCap) String() string { return enumName(lineCapNames, int(c)) }

// Valid reports whether c is a known cap style.
func (c LineCap) Valid() bool { return int(c) >= 0 && int(c) < len(lineCapNames) }

// LineJoin is the shape drawn where two stroked segments meet.
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

var lineJoinNames = []string{"MITER", "ROUND", "BEVEL"}

func (j LineJoin) String() string { return enumName(lineJoinNames, int(j)) }

// Valid reports whether j is a known join style.
func (j LineJoin) Valid() bool { return int(j) >= 0 && int(j) < len(lineJoinNames) }

// Operator is a compositing operator. The Porter-Duff operators and the
// blend modes share cairo_operator_t numbering.
type Operator int

const (
	OperatorClear Operator = iota
	OperatorSource
	OperatorOver
	OperatorIn
	OperatorOut
	OperatorAtop
	OperatorDest
	OperatorDestOver
	OperatorDestIn
	OperatorDestOut
	OperatorDestAtop
	OperatorXor
	OperatorAdd
	OperatorSaturate
	OperatorMultiply
	OperatorScreen
	OperatorOverlay
	OperatorDarken
	OperatorLighten
)

var operatorNames = []string{
	"CLEAR", "SOURCE", "OVER", "IN", "OUT", "ATOP",
	"DEST", "DEST_OVER", "DEST_IN", "DEST_OUT", "DEST_ATOP",
	"XOR", "ADD", "SATURATE",
	"MULTIPLY", "SCREEN", "OVERLAY", "DARKEN", "LIGHTEN",
}

func (o Operator) String() string { return enumName(operatorNames, int(o)) }

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool { return int(o) >= 0 && int(o) < len(operatorNames) }

// Extend controls how a pattern is sampled outside its natural area.
type Extend int

const (
	ExtendNone Extend = iota
	ExtendRepeat
	ExtendReflect
	ExtendPad
)

var extendNames = []string{"NONE", "REPEAT", "REFLECT", "PAD"}

func (e Extend) String() string { return enumName(extendNames, int(e)) }

// Valid reports whether e is a known extend mode.
func (e Extend) Valid() bool { return int(e) >= 0 && int(e) < len(extendNames) }

// EnumNames lists the constant names of every enum type, keyed by the type
// name used in scripts. Index i of each slice holds the name of value i.
var EnumNames = map[string][]string{
	"Antialias": antialiasNames,
	"FillRule":  fillRuleNames,
	"LineCap":   lineCapNames,
	"LineJoin":  lineJoinNames,
	"Operator":  operatorNames,
	"Extend":    extendNames,
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("UNKNOWN(%d)", v)
	}
	return names[v]
}

func checkEnum(kind string, v int, valid bool) error {
	if !valid {
		return fmt.Errorf("%s %d: %w", kind, v, ErrInvalidEnum)
	}
	return nil
}
