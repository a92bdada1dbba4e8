package email

// PreviewData holds sample variables for rendering each template in the
// preview route.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"ContactName": "Ada",
	},
}
