// Package render turns result sets into document operations and applies
// them to an HTML document.
//
// Planning is pure: ListPlan, ReplacePlan and DetailPlan return a
// description of the node operations for a render pass, which tests can
// assert on without a document. Document.Apply executes a plan.
package render

// OpKind names a document operation.
type OpKind string

const (
	// OpClone copies a detached template into Handle and marks it rendered.
	OpClone OpKind = "clone"
	// OpCreate builds a new element into Handle, under Parent when set.
	OpCreate OpKind = "create"
	// OpSetText replaces the children of the target with a text node.
	OpSetText OpKind = "set_text"
	// OpSetAttr sets attribute Key on the target.
	OpSetAttr OpKind = "set_attr"
	// OpSetStyle sets one inline style property on the target.
	OpSetStyle OpKind = "set_style"
	// OpSetLines replaces the children of the target with Lines joined by <br>.
	OpSetLines OpKind = "set_lines"
	// OpAppend moves Handle under the first document match of Selector.
	OpAppend OpKind = "append"
	// OpRemove detaches every match of Selector within the scope.
	OpRemove OpKind = "remove"
)

// RenderedAttr marks nodes created by a render pass.
const RenderedAttr = "data-rendered"

// Attr is an attribute on a created element.
type Attr struct {
	Key string
	Val string
}

// Op is one document operation. Handle names a node built earlier in the
// same plan; when empty, Selector is resolved against the document.
type Op struct {
	Kind     OpKind
	Handle   string
	Selector string
	Template string
	Parent   string
	Tag      string
	Attrs    []Attr
	Key      string
	Value    string
	Lines    []string
}

// Plan is an ordered sequence of operations applied as one unit.
type Plan []Op

// Count returns the number of ops of kind k.
func (p Plan) Count(k OpKind) int {
	n := 0
	for _, op := range p {
		if op.Kind == k {
			n++
		}
	}
	return n
}
