package pdf

import (
	"log/slog"
	"reflect"

	"github.com/ledongthuc/pdf"
)

const maxTreeDepth = 64

// objectRef identifies an indirect object by number and generation.
type objectRef struct {
	id, gen uint64
}

// refOf reports the indirect object v was loaded from. The reader keeps the
// reference unexported, so it is read through reflection; ok is false if
// the field is not there.
func refOf(v pdf.Value) (ref objectRef, ok bool) {
	f := reflect.ValueOf(v).FieldByName("ptr")
	if f.Kind() != reflect.Struct || f.NumField() != 2 {
		return objectRef{}, false
	}
	id, gen := f.Field(0), f.Field(1)
	if !isUnsigned(id.Kind()) || !isUnsigned(gen.Kind()) {
		return objectRef{}, false
	}
	return objectRef{id: id.Uint(), gen: gen.Uint()}, true
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// pageWalker visits the page leaves of one document. Every indirect node is
// entered at most once.
type pageWalker struct {
	logger  *slog.Logger
	visited map[objectRef]bool
	ordinal int
}

// root returns the page tree root, or false for catalogs without one.
func (w *pageWalker) root(reader *pdf.Reader) (root pdf.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("unreadable pdf catalog", "panic", r)
			root, ok = pdf.Value{}, false
		}
	}()

	root = reader.Trailer().Key("Root").Key("Pages")
	if root.Kind() != pdf.Dict {
		return pdf.Value{}, false
	}
	if ref, ok := refOf(root); ok {
		w.visited[ref] = true
	}
	return root, true
}

// walk calls visit for every page leaf under node in document order, with
// the leaf's 1-based ordinal. It returns false as soon as visit does.
func (w *pageWalker) walk(node pdf.Value, depth int, visit func(leaf pdf.Value, ordinal int) bool) bool {
	if w.isPage(node) {
		w.ordinal++
		if !w.hasOwn(node, "Resources") && !w.parentChainEnds(node) {
			w.logger.Debug("skipping pdf page with cyclic parents", "page", w.ordinal)
			return true
		}
		return visit(node, w.ordinal)
	}
	if depth >= maxTreeDepth {
		w.logger.Debug("pdf page tree too deep", "depth", depth)
		return true
	}

	nodeRef, hasRef := refOf(node)
	kids, ok := w.key(node, "Kids")
	if !ok {
		return true
	}
	for i := 0; i < kids.Len(); i++ {
		kid, ok := w.child(kids, i)
		if !ok {
			continue
		}

		// Kids must be indirect references. A kid carrying its parent's
		// reference is either inline or points back at the parent.
		if ref, ok := refOf(kid); ok {
			if hasRef && ref == nodeRef {
				w.logger.Debug("skipping self-referencing pdf page node", "index", i)
				continue
			}
			if w.visited[ref] {
				w.logger.Debug("skipping repeated pdf page node", "index", i)
				continue
			}
			w.visited[ref] = true
		}

		if !w.walk(kid, depth+1, visit) {
			return false
		}
	}
	return true
}

// parentChainEnds reports whether following /Parent from leaf reaches the
// root without repeating a node. The reader looks up inherited resources
// along the same chain with no bound.
func (w *pageWalker) parentChainEnds(leaf pdf.Value) bool {
	seen := make(map[objectRef]bool)
	v := leaf
	for range maxTreeDepth + 1 {
		if v.IsNull() {
			return true
		}
		if ref, ok := refOf(v); ok {
			if seen[ref] {
				return false
			}
			seen[ref] = true
		}
		next, ok := w.key(v, "Parent")
		if !ok {
			return false
		}
		v = next
	}
	return false
}

// key looks up k in v, treating an unreadable value as missing.
func (w *pageWalker) key(v pdf.Value, k string) (val pdf.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("unreadable pdf value", "key", k, "panic", r)
			val, ok = pdf.Value{}, false
		}
	}()
	return v.Key(k), true
}

func (w *pageWalker) hasOwn(v pdf.Value, k string) bool {
	val, ok := w.key(v, k)
	return ok && !val.IsNull()
}

func (w *pageWalker) isPage(v pdf.Value) bool {
	t, ok := w.key(v, "Type")
	return ok && t.Name() == "Page"
}

// child resolves kids[i]. Null kids, dangling references and anything that
// is not a page or page tree node are reported as not ok.
func (w *pageWalker) child(kids pdf.Value, i int) (kid pdf.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("skipping unreadable pdf page node", "index", i, "panic", r)
			kid, ok = pdf.Value{}, false
		}
	}()

	kid = kids.Index(i)
	switch kid.Key("Type").Name() {
	case "Page", "Pages":
		return kid, true
	}
	w.logger.Debug("skipping pdf page tree entry", "index", i, "kind", kid.Kind())
	return pdf.Value{}, false
}
