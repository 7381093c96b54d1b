package operation

// Params is a validated parameter set with defaults applied. Accessors
// return the zero value for names the schema does not declare.
type Params map[string]any

func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

func (p Params) Strings(name string) []string {
	list, _ := p[name].([]string)
	return list
}
