package email

// Template names an HTML file under templates/.
type Template string

const (
	// TemplateWelcome is sent to a newly created contact.
	TemplateWelcome Template = "welcome"
)

// Templates lists every known template.
var Templates = []Template{TemplateWelcome}

// Valid reports whether t names a known template.
func (t Template) Valid() bool {
	for _, known := range Templates {
		if t == known {
			return true
		}
	}
	return false
}
