package bmff

import (
	"context"
	"log/slog"
)

// MaxDepth limits container nesting. Containers below this depth are
// skipped as if they were leaf boxes.
const MaxDepth = 16

// Walker searches a box tree for a target box type. The zero value is
// ready to use.
type Walker struct {
	// Visit, if set, is called with every box header the walker reads and
	// the nesting depth it was read at (0 for top-level boxes).
	Visit func(b Box, depth int)

	// Logger receives a debug record per box. Nil disables logging.
	Logger *slog.Logger
}

// FindBox searches the whole buffer of r, starting at the cursor, for the
// first box of type target. See Walker.FindWithin.
func FindBox(r *Reader, target BoxType) (Box, bool, error) {
	var w Walker
	return w.Find(r, target)
}

// Find searches from the cursor to the end of the buffer.
func (w *Walker) Find(r *Reader, target BoxType) (Box, bool, error) {
	return w.find(r, target, r.Len(), 0)
}

// FindWithin searches for target among the boxes between the cursor and
// end, descending into container boxes. Each container is searched only
// within its own extent, so a corrupt child can never lead the walker
// outside its parent.
//
// On success the cursor is left at the found box's payload. A region that
// ends, or a box header that cannot be read, ends the search; the target
// not appearing is reported as found == false, not as an error.
func (w *Walker) FindWithin(r *Reader, target BoxType, end int) (Box, bool, error) {
	if end > r.Len() {
		end = r.Len()
	}
	return w.find(r, target, end, 0)
}

func (w *Walker) find(r *Reader, target BoxType, end int, depth int) (Box, bool, error) {
	for r.Pos() < end {
		b, err := ReadBox(r)
		if err != nil {
			w.debug("box read ended search", "offset", r.Pos(), "depth", depth, "error", err)
			return Box{}, false, nil
		}
		if b.Offset >= end {
			break
		}
		w.visit(b, depth)

		if b.Type == target {
			r.Seek(b.DataOffset)
			return b, true, nil
		}

		if IsContainerBox(b.Type) && b.Size > 8 && depth+1 < MaxDepth {
			r.Seek(b.DataOffset)
			found, ok, err := w.find(r, target, b.End(), depth+1)
			if err != nil {
				return Box{}, false, err
			}
			if ok {
				return found, true, nil
			}
		}

		r.Seek(b.End())
	}
	return Box{}, false, nil
}

func (w *Walker) visit(b Box, depth int) {
	if w.Visit != nil {
		w.Visit(b, depth)
	}
	w.debug("box", "type", b.Type.String(), "offset", b.Offset, "size", b.Size, "depth", depth)
}

func (w *Walker) debug(msg string, args ...any) {
	if w.Logger != nil {
		w.Logger.Debug(msg, args...)
	}
}

// Walk calls fn for every box in buf, depth first, using the same
// container set and extent bounds as the walker. It stops at the first
// box header that cannot be read and returns that error, or at the
// first error returned by fn.
func Walk(ctx context.Context, buf []byte, fn func(b Box, depth int) error) error {
	r := NewReader(buf)
	return walk(ctx, &r, len(buf), 0, fn)
}

func walk(ctx context.Context, r *Reader, end, depth int, fn func(Box, int) error) error {
	for r.Pos() < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := ReadBox(r)
		if err != nil {
			return err
		}
		if err := fn(b, depth); err != nil {
			return err
		}
		if IsContainerBox(b.Type) && b.Size > 8 && depth+1 < MaxDepth {
			r.Seek(b.DataOffset)
			if err := walk(ctx, r, b.End(), depth+1, fn); err != nil {
				return err
			}
		}
		r.Seek(b.End())
	}
	return nil
}
