package settings

// Preset section names as stored alongside a preset record.
const (
	SectionGenerale = "generale"
	SectionQuery    = "query"
	SectionDisplay  = "display"
	SectionStyle    = "style"
)

// Sections lists preset sections in merge order.
var Sections = []string{SectionGenerale, SectionQuery, SectionDisplay, SectionStyle}

// Preset is a named bundle of settings selected per search box.
type Preset struct {
	ID       int64
	Title    string
	Status   string
	PostType string
	Sections map[string]Layer
}

// Valid reports whether the record is a preset at all. Ids that point at
// other record types are treated as absent.
func (p Preset) Valid() bool {
	return p.ID > 0 && p.PostType == PresetPostType
}

// Layer flattens the preset sections into one layer, later sections win.
func (p Preset) Layer() Layer {
	out := Layer{}
	for _, name := range Sections {
		out = out.Merge(p.Sections[name])
	}
	return out
}

// Style returns the style section alone.
func (p Preset) Style() Layer {
	if s, ok := p.Sections[SectionStyle]; ok {
		return s
	}
	return Layer{}
}
