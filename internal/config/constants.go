package config

// Built-in capability names. These are the lang-item keys the coherence
// pass looks up; the bootstrap prelude registers them under these names.
const (
	DropCapName     = "Drop"
	CopyCapName     = "Copy"
	WidenCapName    = "Widen"
	DynAdaptCapName = "DynAdapt"
	UnsizeCapName   = "Unsize"
)

// Built-in type names
const (
	PhantomTypeName = "Phantom"
	UnitTypeName    = "Unit"
	StaticRegion    = "'static"
)
