package workflow

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digtower/pkg/dag"
	"github.com/matzehuels/digtower/pkg/digfile"
	"github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/resolve"
)

// Labels and styles of synthesized nodes.
const (
	RootTooltip  = "Click to HomePage"
	EmptyLabel   = "Empty Task"
	EmptyTooltip = "This is empty dummy task"
	rootColor    = "brown"
)

// DefaultHomeHref links the root node back to the project index.
const DefaultHomeHref = "../../index.html"

// Options configures a Builder.
type Options struct {
	// Resolver resolves call> and require> targets. Nil means a Resolver
	// with default settings and no search bound.
	Resolver *resolve.Resolver
	// HomeHref is the root node's link. Empty means DefaultHomeHref.
	HomeHref string
	// Logger receives debug output for every directive. Nil means
	// log.Default().
	Logger *log.Logger
}

// Builder compiles definitions into graphs. A Builder holds no per-file
// state and can be reused across files.
type Builder struct {
	resolver *resolve.Resolver
	homeHref string
	logger   *log.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	if opts.Resolver == nil {
		opts.Resolver = &resolve.Resolver{}
	}
	if opts.HomeHref == "" {
		opts.HomeHref = DefaultHomeHref
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Builder{resolver: opts.Resolver, homeHref: opts.HomeHref, logger: opts.Logger}
}

// Result is the compiled form of one definition.
type Result struct {
	Graph     *dag.Graph
	Root      *Block
	Frontier  []dag.NodeID      // exit nodes of the root block
	Schedules []string          // descriptions of schedule directives, in order
	Links     []resolve.Link    // every call>/require> resolution, in order
	Warnings  []resolve.Warning // unresolved references
}

// Build compiles def into a fresh graph.
func (b *Builder) Build(def *digfile.Definition) (*Result, error) {
	g := dag.New(dag.Metadata{"workflow": def.Name, "path": def.Path})
	root := &Block{Node: g.AddNode(def.Name, dag.NodeKindRoot, dag.Style{
		Color:   rootColor,
		Href:    b.homeHref,
		Tooltip: RootTooltip,
	}, dag.NoParent)}

	st := &state{builder: b, def: def, g: g, res: &Result{Graph: g, Root: root}}
	if err := st.build(root, def.Tasks, ""); err != nil {
		return nil, err
	}

	frontier, err := Wire(g, root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "wire %s", def.Path)
	}
	st.res.Frontier = frontier
	return st.res, nil
}

// state carries one Build call.
type state struct {
	builder *Builder
	def     *digfile.Definition
	g       *dag.Graph
	res     *Result
}

// build applies spec to blk, recursing into structural directives. path is
// the slash-joined key path used in error messages.
func (st *state) build(blk *Block, spec any, path string) error {
	// blk.Node was issued by st.g.AddNode, so Seal cannot fail.
	defer func() { _ = st.g.Seal(blk.Node) }()

	switch v := spec.(type) {
	case nil:
		return st.empty(blk)
	case string:
		// Opaque values such as "include other.dig".
		return st.decorate(blk.Node, dag.Decoration{Label: v})
	case digfile.Mapping:
		if len(v) == 0 {
			return st.empty(blk)
		}
		for _, e := range v {
			if err := st.apply(blk, e, path); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidDefinition,
			"%s: task %q must be a mapping, got %s", st.def.Path, displayPath(path), typeName(spec))
	}
}

func (st *state) empty(blk *Block) error {
	return st.decorate(blk.Node, dag.Decoration{
		Label: EmptyLabel,
		Style: dag.Style{Tooltip: EmptyTooltip},
		Kind:  dag.NodeKindEmpty,
	})
}

// apply dispatches one directive of blk.
func (st *state) apply(blk *Block, e digfile.Entry, path string) error {
	d, ok := lookup(e.Key)
	if !ok {
		st.builder.logger.Debug("ignoring key", "file", st.def.Name, "task", displayPath(path), "key", e.Key)
		return nil
	}
	st.builder.logger.Debug("directive", "file", st.def.Name, "task", displayPath(path), "key", e.Key)

	switch d.category {
	case categoryStructural:
		child := &Block{Node: st.g.AddNode(e.Key, dag.NodeKindTask, d.style, blk.Node)}
		blk.Children = append(blk.Children, child)
		return st.build(child, e.Value, path+"/"+e.Key)

	case categoryParallel:
		blk.Parallel = isParallel(e.Value)
		return st.decorate(blk.Node, dag.Decoration{Style: d.style})

	case categoryReference:
		return st.reference(blk, d, e)

	case categorySchedule:
		desc := d.label(e.Key, e.Value)
		st.res.Schedules = append(st.res.Schedules, desc)
		return st.decorate(blk.Node, dag.Decoration{Label: desc, Style: dag.Style{Tooltip: desc}})

	default:
		deco := dag.Decoration{Style: d.style, Kind: d.kind}
		if d.label != nil {
			deco.Label = d.label(e.Key, e.Value)
		}
		if d.tooltip != nil {
			deco.Style.Tooltip = d.tooltip(st.def, e.Value)
		}
		return st.decorate(blk.Node, deco)
	}
}

// reference resolves a call>/require> target and decorates the current
// node. The call is an attribute of the task, not a new task.
func (st *state) reference(blk *Block, d directive, e digfile.Entry) error {
	target := strings.TrimSpace(digfile.Format(e.Value))
	link, warn := st.builder.resolver.Resolve(target, st.def.Path)
	st.res.Links = append(st.res.Links, link)
	if warn != nil {
		st.res.Warnings = append(st.res.Warnings, *warn)
	}

	style := d.style
	style.Href = link.Href
	return st.decorate(blk.Node, dag.Decoration{Label: link.File, Style: style, Kind: d.kind})
}

func (st *state) decorate(id dag.NodeID, d dag.Decoration) error {
	if err := st.g.Decorate(id, d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "decorate node %d", id)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "a list"
	case bool:
		return "a boolean"
	case int64, int, float64:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}
