package records

// Fields is a string to string mapping that remembers the order in which
// keys were first set. overwriting a key keeps its original position.
type Fields struct {
	keys   []string
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: map[string]string{}}
}

func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *Fields) Delete(key string) {
	if _, exists := f.values[key]; !exists {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

func (f *Fields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	value, ok := f.values[key]
	return value, ok
}

func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Merge sets every key of other on f, in the order of other.
func (f *Fields) Merge(other *Fields) {
	for _, key := range other.Keys() {
		value, _ := other.Get(key)
		f.Set(key, value)
	}
}

// Map returns a copy of the fields as a plain map.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, f.Len())
	for _, key := range f.Keys() {
		out[key] = f.values[key]
	}
	return out
}
