package docstring

// Description holds the free-text part of a docstring.
//
// Short is only set when a blank line separates the summary from what follows.
// Without that separator the summary and the rest are joined into Long.
type Description struct {
	Short string `json:"short,omitempty" yaml:"short,omitempty"`
	Long  string `json:"long,omitempty" yaml:"long,omitempty"`
}

// Param is a documented parameter or attribute.
type Param struct {
	Name        string `json:"name" yaml:"name"`
	TypeName    string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	IsOptional  bool   `json:"is_optional" yaml:"is_optional"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Returns documents the return value, or the yielded value of a generator.
type Returns struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	TypeName    string `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	IsGenerator bool   `json:"is_generator" yaml:"is_generator"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Doc is a parsed docstring.
type Doc struct {
	Description Description `json:"description" yaml:"description"`
	Params      []Param     `json:"parameters" yaml:"parameters"`
	Attributes  []Param     `json:"attributes" yaml:"attributes"`
	Returns     *Returns    `json:"returns,omitempty" yaml:"returns,omitempty"`
}
