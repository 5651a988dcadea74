package assemble

// Fragment is one ordered block of source lines. Lines keep their terminators.
type Fragment struct {
	Path  string
	Lines []string

	// SkipFirstLine drops line 0, which is structural (a wrapper or format marker).
	SkipFirstLine bool
	// Filterable allows individual marked lines to be excluded.
	Filterable bool
}

// Plan describes one assembled output.
type Plan struct {
	Header    string
	Fragments []Fragment

	// StripMarked excludes marked lines from filterable fragments.
	StripMarked bool
	Marker      string
}

// Target pairs a plan with its destination file.
type Target struct {
	Name         string
	File         string
	Plan         Plan
	EmitMinified bool
}
