package surface

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpResize OpKind = iota
	OpClear
	OpFillRect
	OpStrokeRect
	OpFillArc
	OpFillPolygon
)

func (k OpKind) String() string {
	switch k {
	case OpResize:
		return "resize"
	case OpClear:
		return "clear"
	case OpFillRect:
		return "fillRect"
	case OpStrokeRect:
		return "strokeRect"
	case OpFillArc:
		return "fillArc"
	case OpFillPolygon:
		return "fillPolygon"
	default:
		return "unknown"
	}
}

// Op is a single recorded drawing call. Rect holds x, y, w, h for
// rectangles, cx, cy, r, start, end for arcs and width, height for resizes.
type Op struct {
	Kind   OpKind
	Rect   []float64
	Points []Point
	Color  Color
}

// Recorder is a Context which records the calls made against it instead of
// rasterizing them. It is used to verify drawing output without pixels.
type Recorder struct {
	Ops []Op
	// ResizeErr, when set, is returned by Resize.
	ResizeErr error
}

var _ Context = (*Recorder)(nil)

// Reset drops all recorded operations.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter returns the recorded operations of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}

// Resize implements Context.
func (r *Recorder) Resize(width, height int) error {
	if r.ResizeErr != nil {
		return r.ResizeErr
	}
	r.Ops = append(r.Ops, Op{Kind: OpResize, Rect: []float64{float64(width), float64(height)}})
	return nil
}

// Clear implements Context.
func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

// FillRect implements Context.
func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: []float64{x, y, w, h}, Color: c})
}

// StrokeRect implements Context.
func (r *Recorder) StrokeRect(x, y, w, h float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, Rect: []float64{x, y, w, h}, Color: c})
}

// FillArc implements Context.
func (r *Recorder) FillArc(cx, cy, radius, start, end float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillArc, Rect: []float64{cx, cy, radius, start, end}, Color: c})
}

// FillPolygon implements Context.
func (r *Recorder) FillPolygon(pts []Point, c Color) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: cp, Color: c})
}
