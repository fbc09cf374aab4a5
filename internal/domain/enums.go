package domain

// PageKind tells content pages apart from template and module sources.
type PageKind string

const (
	PageKindContent  PageKind = "CONTENT"
	PageKindTemplate PageKind = "TEMPLATE"
	PageKindModule   PageKind = "MODULE"
)

func (k PageKind) String() string { return string(k) }

func (k PageKind) IsValid() bool {
	switch k {
	case PageKindContent, PageKindTemplate, PageKindModule:
		return true
	}
	return false
}
