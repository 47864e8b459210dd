package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/specialistvlad/nodemachine/internal/datakind"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that all node type modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// entry is a descriptor together with its parsed pin kinds.
type entry struct {
	desc        Descriptor
	inputKinds  map[string][]cty.Type
	outputKinds map[string]cty.Type
}

// Registry holds the registered node types of a single application instance.
type Registry struct {
	types map[string]*entry
	newID func() string
}

// Option customizes a Registry.
type Option func(*Registry)

// WithIDGenerator replaces the node id generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newID = gen
	}
}

// New creates and initializes a new Registry instance.
func New(opts ...Option) *Registry {
	r := &Registry{
		types: make(map[string]*entry),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterType stores a descriptor under its type name, replacing any earlier
// registration. Malformed descriptors are programmer errors and panic.
func (r *Registry) RegisterType(d Descriptor) {
	if d.TypeName == "" {
		panic("node type registered with an empty type name")
	}

	e := &entry{
		desc:        d,
		inputKinds:  make(map[string][]cty.Type, len(d.Inputs)),
		outputKinds: make(map[string]cty.Type, len(d.Outputs)),
	}
	for _, in := range d.Inputs {
		if _, dup := e.inputKinds[in.Name]; dup {
			panic(fmt.Sprintf("node type '%s' declares input '%s' twice", d.TypeName, in.Name))
		}
		kinds, err := datakind.ParseAll(in.Kinds)
		if err != nil {
			panic(fmt.Sprintf("node type '%s', input '%s': %v", d.TypeName, in.Name, err))
		}
		e.inputKinds[in.Name] = kinds
	}
	for _, out := range d.Outputs {
		if _, dup := e.outputKinds[out.Name]; dup {
			panic(fmt.Sprintf("node type '%s' declares output '%s' twice", d.TypeName, out.Name))
		}
		kind, err := datakind.Parse(out.Kind)
		if err != nil {
			panic(fmt.Sprintf("node type '%s', output '%s': %v", d.TypeName, out.Name, err))
		}
		e.outputKinds[out.Name] = kind
	}

	if _, exists := r.types[d.TypeName]; exists {
		slog.Debug("Replacing registered node type.", "type", d.TypeName)
	} else {
		slog.Debug("Registering node type.", "type", d.TypeName, "inputs", len(d.Inputs), "outputs", len(d.Outputs))
	}
	r.types[d.TypeName] = e
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

func (r *Registry) lookup(typeName string) (*entry, error) {
	e, ok := r.types[typeName]
	if !ok {
		return nil, &UnknownTypeError{TypeName: typeName}
	}
	return e, nil
}

// Descriptor returns the descriptor registered under typeName.
func (r *Registry) Descriptor(typeName string) (Descriptor, error) {
	e, err := r.lookup(typeName)
	if err != nil {
		return Descriptor{}, err
	}
	return e.desc, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a new node of the given type. A missing id is
// generated, width and height are raised to the type's minimum size, and the
// resulting node's Type is always set to typeName.
func (r *Registry) Instantiate(typeName string, args node.Args) (*node.Node, error) {
	e, err := r.lookup(typeName)
	if err != nil {
		return nil, err
	}

	if args.ID == "" {
		args.ID = r.newID()
	}
	if minSize := e.desc.MinimumSize; minSize != nil {
		args.Width = max(args.Width, minSize.Width)
		args.Height = max(args.Height, minSize.Height)
	}

	construct := e.desc.Construct
	if construct == nil {
		construct = node.New
	}
	n := construct(args)
	if n == nil {
		return nil, fmt.Errorf("constructor of node type '%s' returned no node", typeName)
	}
	if n.InputPins == nil {
		n.InputPins = map[string]string{}
	}
	n.Type = typeName
	return n, nil
}

// InputKinds returns the accepted kinds of an input pin of typeName.
func (r *Registry) InputKinds(typeName, pinName string) ([]cty.Type, bool) {
	e, ok := r.types[typeName]
	if !ok {
		return nil, false
	}
	kinds, ok := e.inputKinds[pinName]
	return kinds, ok
}

// OutputKind returns the produced kind of an output pin of typeName.
func (r *Registry) OutputKind(typeName, pinName string) (cty.Type, bool) {
	e, ok := r.types[typeName]
	if !ok {
		return cty.NilType, false
	}
	kind, ok := e.outputKinds[pinName]
	return kind, ok
}

// Compute dispatches to the compute function of the node's type.
func (r *Registry) Compute(n *node.Node, inputs node.Inputs) (node.Outputs, error) {
	e, err := r.lookup(n.Type)
	if err != nil {
		return nil, err
	}
	if e.desc.Compute == nil {
		return nil, nil
	}
	return e.desc.Compute(n, inputs)
}

// RenderNode dispatches to the render hook of the node's type. Types without
// a hook render to nil.
func (r *Registry) RenderNode(req RenderRequest) (any, error) {
	e, err := r.lookup(req.Node.Type)
	if err != nil {
		return nil, err
	}
	if e.desc.Render == nil {
		return nil, nil
	}
	return e.desc.Render(req), nil
}
