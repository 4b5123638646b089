package lua

import (
	"fmt"
	"sort"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/agraphics/internal/graphics"
)

// ModuleName is the global and require() name of the drawing module.
const ModuleName = "agraphics"

// ShowFunc receives surfaces passed to agraphics.show.
type ShowFunc func(s *graphics.Surface) error

// Module is the agraphics drawing API registered in a Runtime.
type Module struct {
	runtime *Runtime
	show    ShowFunc
	table   *rt.Table
	classes map[string]*class
}

// ModuleOption configures a Module at construction time.
type ModuleOption func(*Module)

// WithShowFunc sets the host callback for agraphics.show.
// Without one, show is a no-op.
func WithShowFunc(fn ShowFunc) ModuleOption {
	return func(m *Module) {
		m.show = fn
	}
}

// getter reads a property of the userdata's Go value.
type getter func(v interface{}) rt.Value

// setter assigns a property; the error is raised in the script.
type setter func(v interface{}, val rt.Value) error

// class describes one script-visible type: the methods and properties of
// its instances, and the table holding its constructors.
type class struct {
	name    string
	meta    *rt.Table
	methods map[string]*rt.GoFunction
	getters map[string]getter
	setters map[string]setter
	statics *rt.Table
}

// NewModule builds the agraphics module and registers it as a global and
// in package.loaded so that require "agraphics" returns the same table.
func NewModule(runtime *Runtime, opts ...ModuleOption) (*Module, error) {
	if runtime == nil {
		return nil, ErrNilRuntime
	}

	m := &Module{
		runtime: runtime,
		table:   rt.NewTable(),
		classes: make(map[string]*class),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	m.registerVector2()
	m.registerMatrix()
	m.registerColor()
	m.registerSurface()
	m.registerPatterns()
	m.registerContext()
	m.registerEnums()
	m.setFunction(m.table, "show", m.showSurface, 1)

	for name, cls := range m.classes {
		if cls.statics != nil {
			m.table.Set(rt.StringValue(name), rt.TableValue(cls.statics))
		}
	}
	m.register()

	return m, nil
}

// Table returns the module table.
func (m *Module) Table() *rt.Table {
	return m.table
}

func (m *Module) register() {
	val := rt.TableValue(m.table)
	m.runtime.SetGlobal(ModuleName, val)

	m.runtime.mu.Lock()
	defer m.runtime.mu.Unlock()

	pkg, ok := m.runtime.packageTable()
	if !ok {
		return
	}
	if loaded, ok := pkg.Get(rt.StringValue("loaded")).TryTable(); ok {
		loaded.Set(rt.StringValue(ModuleName), val)
	}
}

func (m *Module) setFunction(table *rt.Table, name string, fn rt.GoFunctionFunc, nArgs int) {
	table.Set(rt.StringValue(name), rt.FunctionValue(newGoFunction(name, fn, nArgs, false)))
}

// newClass creates a class and its metatable. Instances look up methods
// first, then properties.
func (m *Module) newClass(name string, parents ...*class) *class {
	cls := &class{
		name:    name,
		meta:    rt.NewTable(),
		methods: make(map[string]*rt.GoFunction),
		getters: make(map[string]getter),
		setters: make(map[string]setter),
	}
	for _, p := range parents {
		for k, v := range p.methods {
			cls.methods[k] = v
		}
		for k, v := range p.getters {
			cls.getters[k] = v
		}
		for k, v := range p.setters {
			cls.setters[k] = v
		}
	}

	cls.meta.Set(rt.StringValue("__name"), rt.StringValue(name))
	m.setFunction(cls.meta, "__index", cls.index, 2)
	m.setFunction(cls.meta, "__newindex", cls.newIndex, 3)
	m.setFunction(cls.meta, "__tostring", cls.toString, 1)
	m.classes[name] = cls
	return cls
}

// method adds an instance method. fn receives self as argument 0.
func (cls *class) method(name string, fn rt.GoFunctionFunc, nArgs int) {
	cls.methods[name] = newGoFunction(cls.name+":"+name, fn, nArgs, false)
}

// static adds a function to the class table, typically a constructor.
func (m *Module) static(cls *class, name string, fn rt.GoFunctionFunc, nArgs int) {
	if cls.statics == nil {
		cls.statics = rt.NewTable()
	}
	m.setFunction(cls.statics, name, fn, nArgs)
}

func (cls *class) property(name string, get getter, set setter) {
	if get != nil {
		cls.getters[name] = get
	}
	if set != nil {
		cls.setters[name] = set
	}
}

// wrap boxes a Go value as an instance of cls.
func (cls *class) wrap(v interface{}) rt.Value {
	return rt.UserDataValue(rt.NewUserData(v, cls.meta))
}

func (cls *class) index(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	a := argsOf(cls.name+".__index", c)
	if len(a.vals) < 2 {
		return nil, a.errorf(len(a.vals), "value expected")
	}
	ud, ok := a.vals[0].TryUserData()
	if !ok {
		return nil, a.errorf(0, "%s expected", cls.name)
	}
	key, ok := a.vals[1].TryString()
	if !ok {
		return c.PushingNext1(t.Runtime, rt.NilValue), nil
	}
	if fn, ok := cls.methods[key]; ok {
		return c.PushingNext1(t.Runtime, rt.FunctionValue(fn)), nil
	}
	if get, ok := cls.getters[key]; ok {
		return c.PushingNext1(t.Runtime, get(ud.Value())), nil
	}
	return c.PushingNext1(t.Runtime, rt.NilValue), nil
}

func (cls *class) newIndex(_ *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	a := argsOf(cls.name+".__newindex", c)
	if len(a.vals) < 3 {
		return nil, a.errorf(len(a.vals), "value expected")
	}
	ud, ok := a.vals[0].TryUserData()
	if !ok {
		return nil, a.errorf(0, "%s expected", cls.name)
	}
	key, _ := a.vals[1].TryString()
	set, ok := cls.setters[key]
	if !ok {
		if _, ro := cls.getters[key]; ro {
			return nil, fmt.Errorf("%s.%s is read-only", cls.name, key)
		}
		return nil, fmt.Errorf("%s has no field %q", cls.name, key)
	}
	if err := set(ud.Value(), a.vals[2]); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", cls.name, key, err)
	}
	return c.Next(), nil
}

func (cls *class) toString(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	a := argsOf(cls.name+".__tostring", c)
	s := cls.name
	if len(a.vals) > 0 {
		if ud, ok := a.vals[0].TryUserData(); ok {
			if st, ok := ud.Value().(fmt.Stringer); ok {
				s = st.String()
			}
		}
	}
	return c.PushingNext1(t.Runtime, rt.StringValue(s)), nil
}

// registerEnums exposes every enum as a table of integer constants, e.g.
// agraphics.Operator.OVER.
func (m *Module) registerEnums() {
	kinds := make([]string, 0, len(graphics.EnumNames))
	for kind := range graphics.EnumNames {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		enum := rt.NewTable()
		for i, name := range graphics.EnumNames[kind] {
			enum.Set(rt.StringValue(name), rt.IntValue(int64(i)))
		}
		m.table.Set(rt.StringValue(kind), rt.TableValue(enum))
	}
}

func (m *Module) showSurface(_ *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	a := argsOf("show", c)
	s, err := a.surface(0)
	if err != nil {
		return nil, err
	}
	if m.show == nil {
		return c.Next(), nil
	}
	if err := m.show(s); err != nil {
		return nil, a.fail(err)
	}
	return c.Next(), nil
}

// numberProperty builds a getter and setter over a float field.
func numberProperty(field func(v interface{}) *float64) (getter, setter) {
	get := func(v interface{}) rt.Value {
		return rt.FloatValue(*field(v))
	}
	set := func(v interface{}, val rt.Value) error {
		f, err := (callArgs{fn: "set", vals: []rt.Value{val}}).float(0)
		if err != nil {
			return err
		}
		*field(v) = f
		return nil
	}
	return get, set
}
