package typesystem

// Enum exposes the ordered constants of an enumeration type.
// The ordinal of a constant is its position in Constants.
type Enum interface {
	Name() string
	Constants() []string
	Ordinal(name string) (int, bool)
}

// EnumDecl is an Enum declared by name and constant list.
type EnumDecl struct {
	name      string
	constants []string
	ordinals  map[string]int
}

// NewEnum declares an enum. Repeated constant names keep their first ordinal.
func NewEnum(name string, constants ...string) *EnumDecl {
	e := &EnumDecl{
		name:      name,
		constants: append([]string(nil), constants...),
		ordinals:  make(map[string]int, len(constants)),
	}
	for i, c := range constants {
		if _, dup := e.ordinals[c]; !dup {
			e.ordinals[c] = i
		}
	}
	return e
}

func (e *EnumDecl) Name() string { return e.name }

func (e *EnumDecl) Constants() []string {
	return append([]string(nil), e.constants...)
}

func (e *EnumDecl) Ordinal(name string) (int, bool) {
	o, ok := e.ordinals[name]
	return o, ok
}

// Len returns the number of constants.
func (e *EnumDecl) Len() int { return len(e.constants) }
